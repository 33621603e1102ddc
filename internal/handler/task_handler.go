package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
// 全ての操作は認証済みユーザーのIDで所有者を確認する。
type TaskServiceInterface interface {
	List(ctx context.Context, userID string) ([]taskResponse, error)
	Get(ctx context.Context, taskID, userID string) (*taskResponse, error)
	Create(ctx context.Context, userID string, req createTaskRequest) (*taskResponse, error)
	Update(ctx context.Context, taskID, userID string, req updateTaskRequest) (*taskResponse, error)
	Delete(ctx context.Context, taskID, userID string) error
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	errorResponder
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface, exposeErrorDetail bool) *TaskHandler {
	return &TaskHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		service:        service,
	}
}

// taskResponse はタスクのAPIレスポンス。
type taskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTaskRequest はタスク更新リクエストのボディ。省略したフィールドは変更しない。
type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// deleteTaskResponse はタスク削除のAPIレスポンス。
type deleteTaskResponse struct {
	Message string `json:"message"`
}

// ListTasks はユーザーのタスク一覧を返す。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []taskResponse{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetTask はタスクを1件返す。
// GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// CreateTask はタスクを作成する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask はタスクを更新する。
// PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask はタスクを削除する。
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteTaskResponse{Message: "Task removed"})
}
