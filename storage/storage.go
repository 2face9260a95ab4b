package storage

import (
	"fmt"
	"io"
	"net/http"

	"ingest/models"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// StorageAPI is what the upload handlers need from a destination backend.
type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	Destination() *models.Destination
}

var cached = cmap.New[StorageAPI]()

// FromDestination returns the backend for a destination, building and
// caching it on first use. Azure and LakeFS destinations are defined in the
// data model but have no transport here.
func FromDestination(dest *models.Destination) (StorageAPI, error) {
	key := fmt.Sprint(dest.ID)
	if s, ok := cached.Get(key); ok {
		return s, nil
	}
	var s StorageAPI
	switch dest.Kind {
	case models.DestinationInternal, models.DestinationTemporary:
		s = NewDiskStorage(dest)
	case models.DestinationS3:
		s = NewS3Storage(dest)
	default:
		return nil, fmt.Errorf("destination kind %q has no storage driver", dest.Kind)
	}
	cached.Set(key, s)
	return s, nil
}

// Invalidate drops the cached backend after a destination changes.
func Invalidate(destID uint64) {
	cached.Remove(fmt.Sprint(destID))
}
