// Package handler はregistrationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"registration_backend/internal/feature/registration/transport/http/dto"
	"registration_backend/internal/feature/registration/usecase"
)

const (
	msgSuccess          = "Registration successful!"
	msgValidationFailed = "Validation failed"
	msgDuplicate        = "Username already exists. Please choose a different username."
	msgMethodNotAllowed = "Invalid request method. Only POST is allowed."
	msgInvalidBody      = "Invalid request body"
	msgInternal         = "An error occurred while processing your registration. Please try again later."
)

// RegistrationUsecase はユーザー登録のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type RegistrationUsecase interface {
	Register(ctx context.Context, in usecase.RegistrationInput) (uint, error)
}

// RegistrationHandler は登録フォームの送信を処理します。
type RegistrationHandler struct {
	uc RegistrationUsecase
}

// NewRegistrationHandler はRegistrationHandlerの新しいインスタンスを生成します。
func NewRegistrationHandler(uc RegistrationUsecase) *RegistrationHandler {
	return &RegistrationHandler{uc: uc}
}

// Register はユーザー登録APIエンドポイントを処理します。
//   - POST以外は405を返却（ストレージには触れない）
//   - 入力エラー時は400とフィールドごとのメッセージを返却
//   - ユーザー名重複時は409を返却
//   - ストレージ障害時は500を返却
//   - 成功時はuser_id付きで201を返却
func (h *RegistrationHandler) Register(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		slog.Warn("registration rejected", "kind", usecase.KindMethodNotAllowed.String(), "method", c.Request.Method, "remote_addr", c.ClientIP())
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, dto.RegisterRes{Message: msgMethodNotAllowed})
		return
	}

	var req dto.RegisterReq
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		slog.Warn("registration form could not be parsed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.RegisterRes{Message: msgInvalidBody})
		return
	}

	id, err := h.uc.Register(c.Request.Context(), usecase.RegistrationInput{
		Username: req.Username,
		Name:     req.Name,
		Gender:   req.Gender,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, req.Username, err)
		return
	}

	slog.Info("user registration successful", "user_id", id, "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterRes{Success: true, Message: msgSuccess, UserID: id})
}

func (h *RegistrationHandler) respondError(c *gin.Context, username string, err error) {
	switch usecase.KindOf(err) {
	case usecase.KindValidation:
		var msgs []string
		var regErr *usecase.RegistrationError
		if errors.As(err, &regErr) {
			msgs = regErr.Messages
		}
		slog.Info("registration validation failed", "errors", msgs, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.RegisterRes{Message: msgValidationFailed, Errors: msgs})
	case usecase.KindDuplicateUsername:
		slog.Info("registration rejected: duplicate username", "username", username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.RegisterRes{Message: msgDuplicate})
	default:
		// 内部エラーの詳細はクライアントに公開しない
		slog.Error("registration failed", "error", err, "username", username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.RegisterRes{Message: msgInternal})
	}
}
