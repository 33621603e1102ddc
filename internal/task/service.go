// Package task はタスク管理のドメインロジックを提供する。
// 全ての操作は認証済みユーザーのIDを受け取り、所有者以外の参照・変更を拒否する。
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
	"github.com/hitoshi/taskman/internal/security"
)

// 操作名。メトリクスのラベルに使用する。
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// OperationRecorder はタスク操作の結果を記録するインターフェース。
type OperationRecorder interface {
	RecordTaskOperation(op, outcome string)
}

// CreateInput はタスク作成の入力。
type CreateInput struct {
	Title       string
	Description string
}

// UpdateInput はタスク更新の入力。空文字列のフィールドは変更しない。
type UpdateInput struct {
	Title       string
	Description string
	Status      string
}

// Service はタスク管理のサービス層。
type Service struct {
	repo      repository.TaskRepository
	sanitizer security.TextSanitizer
	recorder  OperationRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(repo repository.TaskRepository, sanitizer security.TextSanitizer, recorder OperationRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// List はユーザーが所有するタスクの一覧を返す。タスクがない場合は空スライスを返す。
func (s *Service) List(ctx context.Context, ownerID string) (tasks []*model.Task, err error) {
	defer func() { s.record(OpList, err) }()

	tasks, err = s.repo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return tasks, nil
}

// Get はユーザーが所有するタスクを1件返す。
func (s *Service) Get(ctx context.Context, taskID, ownerID string) (t *model.Task, err error) {
	defer func() { s.record(OpGet, err) }()

	return s.loadOwned(ctx, taskID, ownerID)
}

// Create はタスクを作成する。ステータスは常に既定値で始まる。
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (t *model.Task, err error) {
	defer func() { s.record(OpCreate, err) }()

	title := s.sanitizer.Sanitize(in.Title)
	if title == "" {
		return nil, model.NewValidationError(map[string]string{"title": "Title is required"})
	}

	t = &model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: s.sanitizer.Sanitize(in.Description),
		Status:      model.DefaultTaskStatus,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", t.ID),
		slog.String("user_id", ownerID),
	)
	return t, nil
}

// Update はタスクを更新する。
// 存在確認を所有者確認より先に行う。空または空白のみのフィールドは既存値を維持する。
func (s *Service) Update(ctx context.Context, taskID, ownerID string, in UpdateInput) (t *model.Task, err error) {
	defer func() { s.record(OpUpdate, err) }()

	t, err = s.loadOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		title := s.sanitizer.Sanitize(in.Title)
		if title == "" {
			return nil, model.NewValidationError(map[string]string{"title": "Title must not be empty"})
		}
		t.Title = title
	}
	if description := s.sanitizer.Sanitize(in.Description); description != "" {
		t.Description = description
	}
	if status := s.sanitizer.Sanitize(in.Status); status != "" {
		t.Status = status
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			return nil, model.NewTaskNotFoundError()
		}
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}

	slog.Info("task updated",
		slog.String("task_id", t.ID),
		slog.String("user_id", ownerID),
	)
	return t, nil
}

// Delete はタスクを削除する。存在確認を所有者確認より先に行う。
func (s *Service) Delete(ctx context.Context, taskID, ownerID string) (err error) {
	defer func() { s.record(OpDelete, err) }()

	if _, err := s.loadOwned(ctx, taskID, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			return model.NewTaskNotFoundError()
		}
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("user_id", ownerID),
	)
	return nil
}

// loadOwned はタスクを取得し、所有者であることを確認する。
// 存在しない場合は TASK_NOT_FOUND、所有者でない場合は NOT_AUTHORIZED を返す。
func (s *Service) loadOwned(ctx context.Context, taskID, ownerID string) (*model.Task, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if t == nil {
		return nil, model.NewTaskNotFoundError()
	}
	if !t.IsOwnedBy(ownerID) {
		slog.Warn("task access denied",
			slog.String("task_id", taskID),
			slog.String("user_id", ownerID),
		)
		return nil, model.NewNotAuthorizedError()
	}
	return t, nil
}

func (s *Service) record(op string, err error) {
	if s.recorder == nil {
		return
	}
	var apiErr *model.APIError
	switch {
	case err == nil:
		s.recorder.RecordTaskOperation(op, "success")
	case errors.As(err, &apiErr):
		s.recorder.RecordTaskOperation(op, "rejected")
	default:
		s.recorder.RecordTaskOperation(op, "error")
	}
}
