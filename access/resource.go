package access

import "sync"

// Resource is what the evaluator needs to know about any shareable object.
// Each concrete kind (destination, project, request, ...) implements it.
type Resource interface {
	TypeTag() string
	ResourceID() uint64
	OwnerID() uint64
	IsPublic() bool
	ResourceAttributes() map[string]string
}

// Loader fetches a resource of a registered kind by id.
type Loader func(id uint64) (Resource, error)

var (
	registryMutex sync.RWMutex
	registry      = map[string]Loader{}
)

// Register makes a resource kind known to the evaluator. Called from the
// model packages at startup; an unregistered tag fails evaluation fast.
func Register(tag string, loader Loader) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	registry[tag] = loader
}

// Lookup returns the loader for a registered resource kind.
func Lookup(tag string) (Loader, bool) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	loader, ok := registry[tag]
	return loader, ok
}

// Registered reports whether the resource kind is known.
func Registered(tag string) bool {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	_, ok := registry[tag]
	return ok
}
