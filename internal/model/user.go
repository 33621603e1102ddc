// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashが空文字列の場合はパスワード未設定（Google認証専用アカウント）を意味する。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsGoogleAuth bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword はユーザーがパスワードハッシュを保持しているかを返す。
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}
