// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"net/http"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*authResponse, error)
	Login(ctx context.Context, email, password string) (*authResponse, error)
	GoogleAuth(ctx context.Context, idToken string) (*authResponse, error)
}

// AuthHandler はユーザー登録・ログインのHTTPハンドラー。
type AuthHandler struct {
	errorResponder
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, exposeErrorDetail bool) *AuthHandler {
	return &AuthHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		service:        service,
	}
}

// authResponse は認証成功時のAPIレスポンス。
type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Token string `json:"token"`
}

// Register はパスワード認証のユーザーを登録する。
// POST /api/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login はメールアドレスとパスワードで認証する。
// POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Google はGoogle IDトークンでユーザーを登録する。
// POST /api/users/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req googleAuthRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.GoogleAuth(r.Context(), req.Token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
