// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成し、CreatedAt/UpdatedAtを設定する。
	// email一意制約に違反した場合は model.ErrEmailAlreadyExists を返す。
	Create(ctx context.Context, user *model.User) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。
	// 見つからない場合、またはIDがUUIDとして不正な場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// ListByUserID はユーザーが所有するタスクを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)

	// Create はタスクを作成し、CreatedAt/UpdatedAtを設定する。
	Create(ctx context.Context, task *model.Task) error

	// Update はタスクのtitle、description、statusを上書きし、UpdatedAtを更新する。
	// 対象が存在しない場合は model.ErrTaskNotFound を返す。
	Update(ctx context.Context, task *model.Task) error

	// Delete は指定IDのタスクを削除する。対象が存在しない場合は model.ErrTaskNotFound を返す。
	Delete(ctx context.Context, id string) error
}
