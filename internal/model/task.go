package model

import "time"

// DefaultTaskStatus はタスク作成時に設定される初期ステータス。
// ステータスは列挙ではなく任意の文字列を許容する。
const DefaultTaskStatus = "To Do"

// Task はユーザーが所有するタスクを表す。
// UserIDは作成時に認証済みユーザーから設定され、以後変更されない。
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy は指定ユーザーがタスクの所有者かを返す。
func (t *Task) IsOwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}
