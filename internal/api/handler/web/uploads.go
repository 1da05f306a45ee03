package web

import (
	"net/http"

	"github.com/newthinker/fxagents/internal/analytics"
	"github.com/newthinker/fxagents/internal/api/response"
	"github.com/newthinker/fxagents/internal/api/upload"
	"github.com/newthinker/fxagents/internal/trades"
)

// previewRows caps the rows shown after an upload
const previewRows = 100

// UploadPageData holds data for the upload template
type UploadPageData struct {
	Title     string
	Message   string
	Error     string
	Result    *upload.Result
	Columns   []string
	Rows      []trades.Row
	Truncated bool
}

// ChartsPageData holds data for the charts template
type ChartsPageData struct {
	Title        string
	ID           string
	Filename     string
	StartDate    string
	EndDate      string
	TotalRecords int
	Charts       *analytics.ChartData
	Error        string
}

// UploadPage renders the empty upload form
func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "upload.html", UploadPageData{Title: "Upload"})
}

// Upload ingests the posted file and renders a preview of the stored rows
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	data := UploadPageData{Title: "Upload"}

	ds, res, err := h.uploads.Accept(w, r)
	if err != nil {
		data.Error = errorMessage(err)
		h.render(w, response.StatusFor(err), "upload.html", data)
		return
	}

	data.Result = res
	data.Message = "processed successfully"
	data.Columns = trades.RequiredColumns
	data.Rows = ds.Rows
	if len(data.Rows) > previewRows {
		data.Rows = data.Rows[:previewRows]
		data.Truncated = true
	}
	h.render(w, http.StatusOK, "upload.html", data)
}

// Charts renders the aggregation charts of one upload. An unknown id renders the upload
// page with a not-found message.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q := r.URL.Query()
	data := ChartsPageData{
		Title:     "Charts",
		ID:        id,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	ds, err := h.uploads.Store().Get(id)
	if err != nil {
		h.render(w, http.StatusNotFound, "upload.html", UploadPageData{
			Title: "Upload",
			Error: "data not found, upload the file again",
		})
		return
	}
	data.Filename = ds.Filename

	charts, err := h.uploads.Charts(r.Context(), id, data.StartDate, data.EndDate)
	if err != nil {
		data.Error = errorMessage(err)
		h.render(w, response.StatusFor(err), "charts.html", data)
		return
	}
	data.Charts = charts
	data.TotalRecords = charts.TotalRecords
	h.render(w, http.StatusOK, "charts.html", data)
}
