package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/fxagents/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"hello": "world"}

	JSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json content type")
	}

	var resp SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil {
		t.Error("expected data in response")
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestError_WithCoreError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, core.ErrSchemaViolation)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "SCHEMA_VIOLATION" {
		t.Errorf("expected SCHEMA_VIOLATION, got %s", resp.Error.Code)
	}
}

func TestError_WithCause(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, core.WrapError(core.ErrNotFound, fmt.Errorf("dataset %q", "x")))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "NOT_FOUND" || resp.Error.Cause != `dataset "x"` {
		t.Errorf("unexpected error detail %+v", resp.Error)
	}
}

func TestError_WithStandardError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("boom"))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.WrapError(core.ErrUnsupportedFormat, nil), http.StatusBadRequest},
		{core.WrapError(core.ErrDecodeFailure, nil), http.StatusBadRequest},
		{core.WrapError(core.ErrParseFailure, nil), http.StatusBadRequest},
		{core.WrapError(core.ErrSchemaViolation, nil), http.StatusBadRequest},
		{core.WrapError(core.ErrEmptyInput, nil), http.StatusBadRequest},
		{core.WrapError(core.ErrNotFound, nil), http.StatusNotFound},
		{core.ErrUnauthorized, http.StatusUnauthorized},
		{core.WrapError(core.ErrUpstreamFetch, nil), http.StatusBadGateway},
		{core.WrapError(core.ErrLLMFailed, nil), http.StatusBadGateway},
		{core.WrapError(core.ErrConfigMissing, nil), http.StatusServiceUnavailable},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{core.WrapError(core.ErrUploadTooLarge, &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
