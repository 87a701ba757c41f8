package models

import "sync"

var (
	associationsMu sync.RWMutex
	associations   = make(map[string]any)
)

// RegisterAssociation makes a model type name a valid association target
// for cart rows. Called once at startup for each model.
func RegisterAssociation(name string, model any) {
	associationsMu.Lock()
	defer associationsMu.Unlock()
	associations[name] = model
}

// KnownAssociation reports whether the type name was registered. The
// cart never loads instances of the model; it only checks the name.
func KnownAssociation(name string) bool {
	associationsMu.RLock()
	defer associationsMu.RUnlock()
	_, ok := associations[name]
	return ok
}
