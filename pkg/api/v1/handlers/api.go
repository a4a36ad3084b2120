// Package handlers provides HTTP request handling for the REST surface.
package handlers

import (
	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/store"
)

// APIHandler bundles the collaborators every endpoint needs.
type APIHandler struct {
	schema  store.SchemaRegistry
	records store.RecordStore
	access  store.AccessChecker

	// maxPageSize caps _size when positive; 0 means no cap.
	maxPageSize int
}

// NewAPIHandler creates the shared handler state.
func NewAPIHandler(schema store.SchemaRegistry, records store.RecordStore, access store.AccessChecker, maxPageSize int) *APIHandler {
	return &APIHandler{
		schema:      schema,
		records:     records,
		access:      access,
		maxPageSize: maxPageSize,
	}
}

// AuthHandler handles token issuance.
type AuthHandler struct {
	dispatcher *auth.Dispatcher
}

// NewAuthHandler creates an AuthHandler instance.
func NewAuthHandler(dispatcher *auth.Dispatcher) *AuthHandler {
	return &AuthHandler{dispatcher: dispatcher}
}

// ModelHandler handles the generic BREAD operations over a model.
type ModelHandler struct {
	*APIHandler
}

// NewModelHandler creates a ModelHandler instance.
func NewModelHandler(api *APIHandler) *ModelHandler {
	return &ModelHandler{APIHandler: api}
}
