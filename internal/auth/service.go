// Package auth はパスワード登録・ログイン、Google IDトークンによる登録を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/user"
)

// 認証フロー名。メトリクスのラベルに使用する。
const (
	FlowRegister = "register"
	FlowLogin    = "login"
	FlowGoogle   = "google"
)

// 認証試行の結果。メトリクスのラベルに使用する。
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CredentialStore はユーザー資格情報ストアのインターフェース。
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, in user.NewUser) (*model.User, error)
	MatchPassword(u *model.User, candidate string) bool
}

// TokenIssuer はベアラートークン発行のインターフェース。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AttemptRecorder は認証試行の結果を記録するインターフェース。
type AttemptRecorder interface {
	RecordAuthAttempt(flow, outcome string)
}

// AuthResult は認証成功時にクライアントへ返す情報。
type AuthResult struct {
	ID    string
	Name  string
	Email string
	Token string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	store    CredentialStore
	tokens   TokenIssuer
	verifier IDTokenVerifier
	recorder AttemptRecorder
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(store CredentialStore, tokens TokenIssuer, verifier IDTokenVerifier, recorder AttemptRecorder) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		verifier: verifier,
		recorder: recorder,
	}
}

// Register はパスワード認証のユーザーを登録し、トークンを発行する。
// メールアドレスが既に使われている場合は EMAIL_ALREADY_EXISTS を返す。
func (s *Service) Register(ctx context.Context, name, email, password string) (result *AuthResult, err error) {
	defer func() { s.record(FlowRegister, err) }()

	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "Name is required"
	}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "Email is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("登録前のユーザー確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyExistsError()
	}

	u, err := s.store.Create(ctx, user.NewUser{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if errors.Is(err, model.ErrEmailAlreadyExists) {
		return nil, model.NewEmailAlreadyExistsError()
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザー登録に失敗しました: %w", err)
	}

	slog.Info("user registered", slog.String("user_id", u.ID))
	return s.issue(u)
}

// Login はメールアドレスとパスワードで認証し、トークンを発行する。
// ユーザー不在・パスワード不一致・Google専用アカウントはいずれも同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (result *AuthResult, err error) {
	defer func() { s.record(FlowLogin, err) }()

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ログイン時のユーザー取得に失敗しました: %w", err)
	}
	if !s.store.MatchPassword(u, password) {
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("user logged in", slog.String("user_id", u.ID))
	return s.issue(u)
}

// GoogleAuth はGoogle IDトークンを検証し、新規ユーザーを作成してトークンを発行する。
// 同じメールアドレスのユーザーが既に存在する場合は EMAIL_ALREADY_EXISTS を返す。
func (s *Service) GoogleAuth(ctx context.Context, idToken string) (result *AuthResult, err error) {
	defer func() { s.record(FlowGoogle, err) }()

	if strings.TrimSpace(idToken) == "" {
		return nil, model.NewTokenRequiredError()
	}

	ident, err := s.verifier.Verify(ctx, idToken)
	if errors.Is(err, ErrInvalidGoogleToken) {
		slog.Warn("google id token rejected", slog.String("error", err.Error()))
		return nil, model.NewInvalidGoogleTokenError()
	}
	if err != nil {
		return nil, fmt.Errorf("IDトークンの検証に失敗しました: %w", err)
	}

	existing, err := s.store.FindByEmail(ctx, ident.Email)
	if err != nil {
		return nil, fmt.Errorf("ユーザー確認に失敗しました（Google認証）: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyExistsError()
	}

	name := ident.Name
	if strings.TrimSpace(name) == "" {
		name = ident.Email
	}

	u, err := s.store.Create(ctx, user.NewUser{
		Name:         name,
		Email:        ident.Email,
		IsGoogleAuth: true,
	})
	if errors.Is(err, model.ErrEmailAlreadyExists) {
		return nil, model.NewEmailAlreadyExistsError()
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました（Google認証）: %w", err)
	}

	slog.Info("google user registered", slog.String("user_id", u.ID))
	return s.issue(u)
}

// CurrentUser はトークンの所有者を返す。ユーザーが削除済みの場合は UNAUTHORIZED を返す。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUnauthorizedError()
	}
	return u, nil
}

func (s *Service) issue(u *model.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}
	return &AuthResult{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Token: tok,
	}, nil
}

func (s *Service) record(flow string, err error) {
	if s.recorder == nil {
		return
	}
	var apiErr *model.APIError
	switch {
	case err == nil:
		s.recorder.RecordAuthAttempt(flow, OutcomeSuccess)
	case errors.As(err, &apiErr):
		s.recorder.RecordAuthAttempt(flow, OutcomeRejected)
	default:
		s.recorder.RecordAuthAttempt(flow, OutcomeError)
	}
}
