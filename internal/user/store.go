// Package user はユーザー資格情報の管理を提供する。
// パスワードのハッシュ化は永続化前の明示的なステップとしてCreate内で行う。
package user

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// DefaultBcryptCost はパスワードハッシュの既定コスト。
const DefaultBcryptCost = 10

// NewUser はユーザー作成の入力。
// Passwordは平文で受け取り、永続化前にハッシュ化する。
type NewUser struct {
	Name         string
	Email        string
	Password     string
	IsGoogleAuth bool
}

// Store はユーザー資格情報のストア。
type Store struct {
	repo repository.UserRepository
	cost int
}

// NewStore はStoreの新しいインスタンスを生成する。
// costがbcryptの許容範囲外の場合は既定値を使用する。
func NewStore(repo repository.UserRepository, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Store{repo: repo, cost: cost}
}

// NormalizeEmail は前後の空白を除去し小文字化したメールアドレスを返す。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	return u, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return u, nil
}

// Create はユーザーを作成する。
// Googleアカウントはパスワードが渡されてもハッシュを保持しない。
// email一意制約違反は model.ErrEmailAlreadyExists として返す。
func (s *Store) Create(ctx context.Context, in NewUser) (*model.User, error) {
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		IsGoogleAuth: in.IsGoogleAuth,
	}

	if in.Password != "" && !in.IsGoogleAuth {
		hash, err := bcrypt.GenerateFromPassword(passwordDigest(in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを作成しました",
		slog.String("user_id", u.ID),
		slog.Bool("is_google_auth", u.IsGoogleAuth),
	)
	return u, nil
}

// MatchPassword は候補パスワードがユーザーのハッシュと一致するかを返す。
// ユーザーがnil、またはハッシュを持たない場合は常にfalseを返す。
func (s *Store) MatchPassword(u *model.User, candidate string) bool {
	if !u.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), passwordDigest(candidate)) == nil
}

// passwordDigest はbcryptに渡す入力を返す。
// bcryptは72バイトを超える入力を受け付けないため、SHA-256をbase64化した44バイトに揃える。
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
