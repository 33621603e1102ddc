package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500 INTERNAL_ERRORレスポンスを返すミドルウェアを生成する。
// exposeDetailがtrueの場合のみ、レスポンスのdataにpanic内容とスタックを含める。
func NewRecoveryMiddleware(exposeDetail bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				slog.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", stack),
				)

				var data map[string]string
				if exposeDetail {
					data = map[string]string{
						"detail": fmt.Sprint(rec),
						"stack":  stack,
					}
				}
				WriteInternalServerError(w, data)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
