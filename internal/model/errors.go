package model

import (
	"errors"
	"fmt"
)

// ErrEmailAlreadyExists はusersテーブルのemail一意制約違反を表す。
// 事前チェックをすり抜けた同時登録はこのエラーとして永続化層から返る。
var ErrEmailAlreadyExists = errors.New("email already exists")

// ErrTaskNotFound は更新・削除の対象タスクが永続化層に存在しないことを表す。
// 所有者確認の後に別リクエストで削除された場合に返る。
var ErrTaskNotFound = errors.New("task not found")

// APIError は統一エラーフォーマットを表す。
// Dataにはフィールド単位の補足情報を格納する。
type APIError struct {
	Code    string            // エラーコード
	Message string            // エラーメッセージ
	Data    map[string]string // フィールドごとの詳細（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeTokenRequired      = "TOKEN_REQUIRED"
	ErrCodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotAuthorized      = "NOT_AUTHORIZED"
	ErrCodeInvalidGoogleToken = "INVALID_GOOGLE_TOKEN"
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は必須入力の欠落を表すエラーを生成する。
// fieldsにはフィールド名とメッセージの組を渡す。
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: "Form validation fails",
		Data:    fields,
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: "Invalid request payload",
	}
}

// NewTokenRequiredError はGoogleトークン未指定エラーを生成する。
func NewTokenRequiredError() *APIError {
	return &APIError{
		Code:    ErrCodeTokenRequired,
		Message: "Form validation fails",
		Data:    map[string]string{"token": "Google token is required"},
	}
}

// NewEmailAlreadyExistsError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyExistsError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailAlreadyExists,
		Message: "User registration failed",
		Data:    map[string]string{"email": "User with this email already exists"},
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// メールアドレスとパスワードのどちらが誤っていたかは含めない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// NewUnauthorizedError は認証トークン欠落・無効エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Not authorized, token failed",
	}
}

// NewNotAuthorizedError はリソース所有者不一致エラーを生成する。
func NewNotAuthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeNotAuthorized,
		Message: "Not authorized",
	}
}

// NewInvalidGoogleTokenError はGoogle IDトークン検証失敗エラーを生成する。
func NewInvalidGoogleTokenError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidGoogleToken,
		Message: "Invalid Google token",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTaskNotFound,
		Message: "Task not found",
	}
}
