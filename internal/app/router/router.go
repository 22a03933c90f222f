package router

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"registration_backend/internal/feature/registration/transport/handler"
	"registration_backend/internal/feature/registration/transport/view"
	platformhandler "registration_backend/internal/platform/http/handler"
	"registration_backend/internal/platform/http/middleware"
)

// Options toggles optional router behaviour.
type Options struct {
	Logger      *slog.Logger
	CORSEnabled bool
}

// NewRouter builds the gin engine with the registration, listing and health routes.
func NewRouter(register *handler.RegistrationHandler, users *handler.UserListHandler,
	storage platformhandler.StorageState, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(opts.Logger))

	if opts.CORSEnabled {
		r.Use(cors.Default())
	}

	r.SetHTMLTemplate(view.MustTemplates())

	// 導通確認用
	health := platformhandler.Health(storage)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// 新規ユーザー登録
	// POST以外はハンドラー側で405を返すため、全メソッドを受け付ける
	r.Any("/register", register.Register)

	// 登録済みユーザー一覧（開発用、認証なし）
	r.GET("/users", users.List)

	return r
}
