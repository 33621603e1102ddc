package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn   func(ctx context.Context, name, email, password string) (*authResponse, error)
	loginFn      func(ctx context.Context, email, password string) (*authResponse, error)
	googleAuthFn func(ctx context.Context, idToken string) (*authResponse, error)
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (*authResponse, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, name, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*authResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) GoogleAuth(ctx context.Context, idToken string) (*authResponse, error) {
	if m.googleAuthFn != nil {
		return m.googleAuthFn(ctx, idToken)
	}
	return nil, nil
}

// --- ヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseErrorBody はレスポンスボディから統一エラーフォーマットをパースするヘルパー。
func parseErrorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

// --- POST /api/users/register ---

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(_ context.Context, name, email, password string) (*authResponse, error) {
			if name != "Alice" || email != "alice@example.com" || password != "pw" {
				t.Errorf("unexpected args: %q %q %q", name, email, password)
			}
			return &authResponse{ID: "u1", Name: name, Email: email, Token: "tok"}, nil
		},
	}
	h := NewAuthHandler(svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		jsonBody(t, map[string]string{"name": "Alice", "email": "alice@example.com", "password": "pw"}))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp authResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.ID != "u1" || resp.Token != "tok" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := parseErrorBody(t, w); body.Code != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q", body.Code)
	}
}

func TestAuthHandler_Register_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", model.NewValidationError(map[string]string{"name": "Name is required"}), http.StatusBadRequest, model.ErrCodeValidation},
		{"conflict", model.NewEmailAlreadyExistsError(), http.StatusBadRequest, model.ErrCodeEmailAlreadyExists},
		{"internal", errors.New("db down"), http.StatusInternalServerError, model.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				registerFn: func(context.Context, string, string, string) (*authResponse, error) {
					return nil, tt.err
				},
			}
			h := NewAuthHandler(svc, false)

			req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			h.Register(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := parseErrorBody(t, w)
			if body.Code != tt.wantCode || body.StatusCode != tt.wantStatus || !body.Error {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestAuthHandler_InternalError_DetailOnlyWhenExposed(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(context.Context, string, string) (*authResponse, error) {
			return nil, errors.New("connection refused")
		},
	}

	for _, expose := range []bool{true, false} {
		h := NewAuthHandler(svc, expose)
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		h.Login(w, req)

		body := parseErrorBody(t, w)
		_, hasDetail := body.Data["detail"]
		if hasDetail != expose {
			t.Errorf("expose=%v: detail present = %v", expose, hasDetail)
		}
	}
}

// --- POST /api/users/login ---

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(_ context.Context, email, password string) (*authResponse, error) {
			return &authResponse{ID: "u1", Name: "Alice", Email: email, Token: "tok"}, nil
		},
	}
	h := NewAuthHandler(svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		jsonBody(t, map[string]string{"email": "alice@example.com", "password": "pw"}))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(context.Context, string, string) (*authResponse, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		jsonBody(t, map[string]string{"email": "nobody@example.com", "password": "pw"}))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if strings.Contains(w.Body.String(), "Email not found") {
		t.Error("response must not reveal whether the email exists")
	}
}

// --- POST /api/users/google ---

func TestAuthHandler_Google_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"token":"id-token"}`, nil, http.StatusCreated},
		{"missing token", `{}`, model.NewTokenRequiredError(), http.StatusUnprocessableEntity},
		{"empty body", ``, model.NewTokenRequiredError(), http.StatusUnprocessableEntity},
		{"invalid token", `{"token":"bad"}`, model.NewInvalidGoogleTokenError(), http.StatusUnauthorized},
		{"existing email", `{"token":"id-token"}`, model.NewEmailAlreadyExistsError(), http.StatusBadRequest},
		{"google unreachable", `{"token":"id-token"}`, errors.New("timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				googleAuthFn: func(context.Context, string) (*authResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &authResponse{ID: "u1", Name: "G", Email: "g@example.com", Token: "tok"}, nil
				},
			}
			h := NewAuthHandler(svc, false)

			req := httptest.NewRequest(http.MethodPost, "/api/users/google", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Google(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{model.ErrCodeValidation, http.StatusBadRequest},
		{model.ErrCodeInvalidRequest, http.StatusBadRequest},
		{model.ErrCodeTokenRequired, http.StatusUnprocessableEntity},
		{model.ErrCodeEmailAlreadyExists, http.StatusBadRequest},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{model.ErrCodeUnauthorized, http.StatusUnauthorized},
		{model.ErrCodeNotAuthorized, http.StatusUnauthorized},
		{model.ErrCodeInvalidGoogleToken, http.StatusUnauthorized},
		{model.ErrCodeTaskNotFound, http.StatusNotFound},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := mapAPIErrorToHTTPStatus(&model.APIError{Code: tt.code}); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}
