// Package handlers contains the HTTP handlers mapping registry routes
// onto facade operations. All outcomes, success and error alike, share
// the facade's response envelope.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/schemahub/registry/internal/api/facade"
	"github.com/schemahub/registry/internal/api/validation"
	"github.com/schemahub/registry/internal/logger"
)

// SchemaHandlers provides HTTP handlers for schema registry operations
type SchemaHandlers struct {
	facade *facade.Facade
	log    zerolog.Logger
}

// NewSchemaHandlers creates new schema handlers over the facade
func NewSchemaHandlers(f *facade.Facade) *SchemaHandlers {
	return &SchemaHandlers{
		facade: f,
		log:    logger.WithComponent("http.schemas"),
	}
}

// Create handles PUT .../schemas, creating or overwriting a descriptor.
// Descriptor fields arrive as query parameters.
func (h *SchemaHandlers) Create(w http.ResponseWriter, r *http.Request, namespace string) {
	q := r.URL.Query()
	if err := validation.ValidateNonEmpty("id", q.Get("id")); err != nil {
		writeResponse(w, facade.ErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}
	resp := h.facade.CreateSchema(r.Context(),
		namespace, q.Get("id"), q.Get("name"), q.Get("description"), q.Get("type"))
	writeResponse(w, resp)
}

// Upload handles POST .../schemas/{id}, appending the request body as
// a new version. With ?validate=true the body must additionally be a
// well-formed JSON Schema document.
func (h *SchemaHandlers) Upload(w http.ResponseWriter, r *http.Request, namespace, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeResponse(w, facade.ErrorResponse(http.StatusInternalServerError, "failed to read request body: "+err.Error()))
		return
	}

	if r.URL.Query().Get("validate") == "true" {
		if err := validation.ValidateSchemaDefinition(body); err != nil {
			writeResponse(w, facade.ErrorResponse(http.StatusBadRequest, "invalid schema definition: "+err.Error()))
			return
		}
	}

	writeResponse(w, h.facade.UploadSchema(r.Context(), namespace, id, body))
}

// Delete handles DELETE .../schemas/{id}, removing the identity with
// every version
func (h *SchemaHandlers) Delete(w http.ResponseWriter, r *http.Request, namespace, id string) {
	writeResponse(w, h.facade.DeleteSchema(r.Context(), namespace, id))
}

// DeleteVersion handles DELETE .../schemas/{id}/versions/{version}
func (h *SchemaHandlers) DeleteVersion(w http.ResponseWriter, r *http.Request, namespace, id string, version int64) {
	writeResponse(w, h.facade.DeleteVersion(r.Context(), namespace, id, version))
}

// Get handles GET .../schemas/{id}, resolving the current version
func (h *SchemaHandlers) Get(w http.ResponseWriter, r *http.Request, namespace, id string) {
	writeResponse(w, h.facade.GetEntry(r.Context(), namespace, id))
}

// GetVersion handles GET .../schemas/{id}/versions/{version}
func (h *SchemaHandlers) GetVersion(w http.ResponseWriter, r *http.Request, namespace, id string, version int64) {
	writeResponse(w, h.facade.GetEntryVersion(r.Context(), namespace, id, version))
}

// ListVersions handles GET .../schemas/{id}/versions
func (h *SchemaHandlers) ListVersions(w http.ResponseWriter, r *http.Request, namespace, id string) {
	writeResponse(w, h.facade.ListVersions(r.Context(), namespace, id))
}

// WriteError renders an error envelope for routing-level failures
func WriteError(w http.ResponseWriter, status int, message string) {
	writeResponse(w, facade.ErrorResponse(status, message))
}

// writeResponse renders the response envelope with its own status code
func writeResponse(w http.ResponseWriter, resp *facade.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Failed to encode response, but we've already written the status code
		return
	}
}
