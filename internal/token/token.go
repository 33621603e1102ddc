// Package token はAPIアクセス用のベアラートークン（HS256 JWT）を発行・検証する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL はトークンの既定有効期間（30日）。
const DefaultTTL = 30 * 24 * time.Hour

// ErrInvalidToken は署名・有効期限・発行者のいずれかの検証に失敗したことを表す。
var ErrInvalidToken = errors.New("invalid token")

// Config はトークン発行の設定。
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims はトークンに埋め込むクレーム。
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issuer はユーザーIDを含むトークンを発行する。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewIssuer はIssuerを生成する。秘密鍵が空、またはTTLが0以下の場合はエラーを返す。
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token TTL must be positive: %s", cfg.TTL)
	}
	return &Issuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue はuserIDを主体とするトークンを発行する。
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID must not be empty")
	}

	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証し、埋め込まれたユーザーIDを返す。
// 検証に失敗した場合は ErrInvalidToken をラップして返す。
func (i *Issuer) Parse(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
