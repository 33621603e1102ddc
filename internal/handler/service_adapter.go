package handler

import (
	"context"

	"github.com/hitoshi/taskman/internal/auth"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/task"
)

// AuthServiceAdapter は auth.Service を AuthServiceInterface と UserServiceInterface に適合させるアダプタ。
type AuthServiceAdapter struct {
	svc *auth.Service
}

// NewAuthServiceAdapter はAuthServiceAdapterを生成する。
func NewAuthServiceAdapter(svc *auth.Service) *AuthServiceAdapter {
	return &AuthServiceAdapter{svc: svc}
}

// Register はユーザーを登録しhandlerレスポンス型で返す。
func (a *AuthServiceAdapter) Register(ctx context.Context, name, email, password string) (*authResponse, error) {
	res, err := a.svc.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return toAuthResponse(res), nil
}

// Login はログインしhandlerレスポンス型で返す。
func (a *AuthServiceAdapter) Login(ctx context.Context, email, password string) (*authResponse, error) {
	res, err := a.svc.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return toAuthResponse(res), nil
}

// GoogleAuth はGoogle IDトークンでユーザーを登録しhandlerレスポンス型で返す。
func (a *AuthServiceAdapter) GoogleAuth(ctx context.Context, idToken string) (*authResponse, error) {
	res, err := a.svc.GoogleAuth(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return toAuthResponse(res), nil
}

// CurrentUser はトークン所有者をhandlerレスポンス型で返す。
func (a *AuthServiceAdapter) CurrentUser(ctx context.Context, userID string) (*userResponse, error) {
	u, err := a.svc.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		IsGoogleAuth: u.IsGoogleAuth,
	}, nil
}

func toAuthResponse(res *auth.AuthResult) *authResponse {
	return &authResponse{
		ID:    res.ID,
		Name:  res.Name,
		Email: res.Email,
		Token: res.Token,
	}
}

// TaskServiceAdapter は task.Service を TaskServiceInterface に適合させるアダプタ。
type TaskServiceAdapter struct {
	svc *task.Service
}

// NewTaskServiceAdapter はTaskServiceAdapterを生成する。
func NewTaskServiceAdapter(svc *task.Service) *TaskServiceAdapter {
	return &TaskServiceAdapter{svc: svc}
}

// List はタスク一覧をhandlerレスポンス型で返す。
func (a *TaskServiceAdapter) List(ctx context.Context, userID string) ([]taskResponse, error) {
	tasks, err := a.svc.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		results[i] = toTaskResponse(t)
	}
	return results, nil
}

// Get はタスクをhandlerレスポンス型で返す。
func (a *TaskServiceAdapter) Get(ctx context.Context, taskID, userID string) (*taskResponse, error) {
	t, err := a.svc.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Create はタスクを作成しhandlerレスポンス型で返す。
func (a *TaskServiceAdapter) Create(ctx context.Context, userID string, req createTaskRequest) (*taskResponse, error) {
	t, err := a.svc.Create(ctx, userID, task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Update はタスクを更新しhandlerレスポンス型で返す。
func (a *TaskServiceAdapter) Update(ctx context.Context, taskID, userID string, req updateTaskRequest) (*taskResponse, error) {
	t, err := a.svc.Update(ctx, taskID, userID, task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Delete はタスクを削除する。
func (a *TaskServiceAdapter) Delete(ctx context.Context, taskID, userID string) error {
	return a.svc.Delete(ctx, taskID, userID)
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// compile-time interface checks
var (
	_ AuthServiceInterface = (*AuthServiceAdapter)(nil)
	_ UserServiceInterface = (*AuthServiceAdapter)(nil)
	_ TaskServiceInterface = (*TaskServiceAdapter)(nil)
)
