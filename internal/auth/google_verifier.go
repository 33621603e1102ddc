package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultGoogleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	defaultGoogleTimeout      = 10 * time.Second
)

// ErrInvalidGoogleToken はGoogleがIDトークンを拒否した、またはクレームが要件を満たさないことを表す。
var ErrInvalidGoogleToken = errors.New("invalid google id token")

// googleIssuers はIDトークンの発行者として許容する値。
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleIdentity は検証済みIDトークンから取り出したユーザー情報。
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// IDTokenVerifier はGoogle IDトークンの検証インターフェース。
type IDTokenVerifier interface {
	// Verify はIDトークンを検証し、ユーザー情報を返す。
	// トークンが拒否された場合は ErrInvalidGoogleToken を返す。
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// GoogleVerifierConfig はGoogle IDトークン検証の設定。
type GoogleVerifierConfig struct {
	ClientID string
	Timeout  time.Duration

	// テスト用にオーバーライド可能なURL
	TokenInfoURL string
}

// GoogleIDTokenVerifier はGoogleのtokeninfoエンドポイントでIDトークンを検証する。
type GoogleIDTokenVerifier struct {
	config GoogleVerifierConfig
	client *http.Client
	now    func() time.Time
}

// NewGoogleIDTokenVerifier はGoogleIDTokenVerifierを生成する。
func NewGoogleIDTokenVerifier(config GoogleVerifierConfig) *GoogleIDTokenVerifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultGoogleTokenInfoURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultGoogleTimeout
	}
	return &GoogleIDTokenVerifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		now:    time.Now,
	}
}

// googleTokenInfo はtokeninfoエンドポイントのレスポンス。
// exp は秒単位のUNIX時刻を文字列で返す。
type googleTokenInfo struct {
	Aud   string `json:"aud"`
	Iss   string `json:"iss"`
	Sub   string `json:"sub"`
	Exp   string `json:"exp"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verify はIDトークンをGoogleに問い合わせて検証する。
// Googleが4xxを返した場合やクレームが不一致の場合は ErrInvalidGoogleToken、
// 通信失敗や5xxの場合はそれ以外のエラーを返す。
func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	endpoint := v.config.TokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w: tokeninfo returned status %d", ErrInvalidGoogleToken, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo failed with status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	if err := v.checkClaims(&info); err != nil {
		return nil, err
	}

	return &GoogleIdentity{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}

func (v *GoogleIDTokenVerifier) checkClaims(info *googleTokenInfo) error {
	if info.Aud != v.config.ClientID {
		return fmt.Errorf("%w: audience mismatch", ErrInvalidGoogleToken)
	}
	if !googleIssuers[info.Iss] {
		return fmt.Errorf("%w: unexpected issuer %q", ErrInvalidGoogleToken, info.Iss)
	}
	exp, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed exp", ErrInvalidGoogleToken)
	}
	if !v.now().Before(time.Unix(exp, 0)) {
		return fmt.Errorf("%w: token expired", ErrInvalidGoogleToken)
	}
	if info.Email == "" {
		return fmt.Errorf("%w: email missing", ErrInvalidGoogleToken)
	}
	return nil
}

// compile-time interface check
var _ IDTokenVerifier = (*GoogleIDTokenVerifier)(nil)
