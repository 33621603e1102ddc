// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はタスクのタイトル・説明など利用者入力のプレーンテキストを保存可能な形に整える。
// APIはJSONでテキストを返すため、HTMLとしての解釈やエスケープはクライアントの責務とし、
// "<" や "&" を含む文字列はそのまま保持する。
package security

import (
	"strings"
	"unicode"
)

// TextSanitizer はプレーンテキスト入力のサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize は不正なUTF-8と制御文字（タブ・改行を除く）を取り除き、前後の空白を除いたテキストを返す。
	// 表示可能な文字は一切変更しない。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。状態を持たない。
type textSanitizer struct{}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizer {
	return textSanitizer{}
}

// Sanitize は保存できない文字を除去したテキストを返す。
// PostgreSQLのtext型はNULバイトを受け付けないため、ここで落とす。
func (textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.ToValidUTF8(raw, ""))
	return strings.TrimSpace(cleaned)
}
