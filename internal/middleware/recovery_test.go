package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecoveryMiddleware_ReturnsInternalError(t *testing.T) {
	tests := []struct {
		name         string
		exposeDetail bool
	}{
		{"development exposes detail", true},
		{"production hides detail", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRecoveryMiddleware(tt.exposeDetail)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("something broke")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusInternalServerError {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
			}

			var body ErrorResponseBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Code != "INTERNAL_ERROR" {
				t.Errorf("code = %q", body.Code)
			}

			_, hasStack := body.Data["stack"]
			if hasStack != tt.exposeDetail {
				t.Errorf("stack present = %v, want %v", hasStack, tt.exposeDetail)
			}
			if tt.exposeDetail && body.Data["detail"] != "something broke" {
				t.Errorf("detail = %q", body.Data["detail"])
			}
		})
	}
}

func TestRecoveryMiddleware_NoPanic_PassesThrough(t *testing.T) {
	handler := NewRecoveryMiddleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Result().StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusAccepted)
	}
}
