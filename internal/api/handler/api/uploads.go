package api

import (
	"net/http"

	"github.com/newthinker/fxagents/internal/api/response"
	"github.com/newthinker/fxagents/internal/api/upload"
)

// UploadsHandler handles trade-result uploads and chart queries.
type UploadsHandler struct {
	uploads *upload.Service
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(svc *upload.Service) *UploadsHandler {
	return &UploadsHandler{uploads: svc}
}

// Create handles POST /api/v1/uploads
func (h *UploadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.uploads.Accept(w, r)
	if err != nil {
		// SCHEMA_VIOLATION carries the missing column names as its cause
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

// List handles GET /api/v1/uploads
func (h *UploadsHandler) List(w http.ResponseWriter, r *http.Request) {
	archived, err := h.uploads.Archived(r.Context())
	if err != nil {
		response.Fail(w, err)
		return
	}

	datasets := h.uploads.Store().List()
	items := make([]map[string]any, 0, len(datasets))
	for _, ds := range datasets {
		items = append(items, map[string]any{
			"id":         ds.ID,
			"filename":   ds.Filename,
			"rows":       ds.Len(),
			"created_at": ds.CreatedAt,
		})
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"uploads":  items,
		"count":    len(items),
		"archived": archived,
	})
}

// Charts handles GET /api/v1/uploads/{id}/charts
func (h *UploadsHandler) Charts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, err := h.uploads.Charts(r.Context(), r.PathValue("id"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, data)
}
