package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenParser       middleware.TokenParser
	CORSAllowedOrigin string
	Logger            *slog.Logger
	HTTPRecorder      middleware.HTTPRecorder

	// 本番環境以外では内部エラーの詳細をレスポンスに含める
	ExposeErrorDetail bool
	// 本番環境ではStrict-Transport-Securityを付与する
	EnableHSTS bool

	// 運用エンドポイント
	DB             Pinger
	MetricsHandler http.Handler

	// 認証・ユーザー
	AuthService AuthServiceInterface
	UserService UserServiceInterface

	// タスク
	TaskService TaskServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → (BearerAuth)
//
// 登録・ログイン・Google認証と運用エンドポイントは認証グループの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware(deps.ExposeErrorDetail))
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.EnableHSTS))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.ExposeErrorDetail)
	userHandler := NewUserHandler(deps.UserService, deps.ExposeErrorDetail)
	taskHandler := NewTaskHandler(deps.TaskService, deps.ExposeErrorDetail)

	// --- 認証不要のルート ---
	r.Get("/", Root)
	if deps.DB != nil {
		r.Get("/health", NewHealthHandler(deps.DB))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/google", authHandler.Google)

		r.With(middleware.NewBearerAuthMiddleware(deps.TokenParser)).Get("/me", userHandler.Me)
	})

	// --- 認証が必要なルート ---
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(middleware.NewBearerAuthMiddleware(deps.TokenParser))

		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTask)
			r.Put("/", taskHandler.UpdateTask)
			r.Delete("/", taskHandler.DeleteTask)
		})
	})

	return r
}
