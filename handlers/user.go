package handlers

import (
	"net/http"

	"ingest/auth"
	"ingest/db"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserCreateRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
type UserInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, success := models.UserLogin(postReq.Email, postReq.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

// UserCreate registers an account. Memberships invited to this email before
// the account existed get resolved as part of the call.
func UserCreate(c *gin.Context) {
	postReq := UserCreateRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := models.UserCreate(postReq.Name, postReq.Email, postReq.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "id": user.ID, "name": user.Name})
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"error": "", "id": user.ID, "name": user.Name, "email": user.Email})
}

func UserList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.Table("users").Select("id, name, email").Order("created_at DESC").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	defer rows.Close()
	result := []UserInfo{}
	for rows.Next() {
		userInfo := UserInfo{}
		if err = rows.Scan(&userInfo.ID, &userInfo.Name, &userInfo.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 2"})
			return
		}
		result = append(result, userInfo)
	}
	c.JSON(http.StatusOK, result)
}
