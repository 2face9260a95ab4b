package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ingest/access"
	"ingest/models"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	OKResponse = Response{}
)

// requireAccess runs the authorization gate and writes the HTTP error on a
// negative outcome. Returns true when the caller may proceed.
func requireAccess(c *gin.Context, user *models.User, typeTag string, action access.Action, res access.Resource) bool {
	err := access.Default.Authorize(user.Actor(), typeTag, action, res)
	if err == nil {
		return true
	}
	var denied *access.DeniedError
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return false
	}
	var invalid *access.InvalidRequestError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
		return false
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
	return false
}

// parseAttributes decodes the optional attributes form field, a JSON object
// of string values.
func parseAttributes(raw string) (models.Attributes, error) {
	attrs := models.Attributes{}
	if raw == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// storeError maps model-layer failures onto HTTP responses.
func storeError(c *gin.Context, err error) {
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "fields": invalid.Fields})
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
