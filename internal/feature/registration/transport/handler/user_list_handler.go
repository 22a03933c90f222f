package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"registration_backend/internal/feature/registration/domain/entity"
	"registration_backend/internal/feature/registration/transport/http/dto"
	"registration_backend/internal/feature/registration/transport/view"
)

// DirectoryUsecase はユーザー一覧取得のユースケースを定義します。
type DirectoryUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
}

// UserListHandler renders the registered-users page.
// The page is not behind authentication and is meant for development use only.
type UserListHandler struct {
	uc DirectoryUsecase
}

// NewUserListHandler creates a UserListHandler.
func NewUserListHandler(uc DirectoryUsecase) *UserListHandler {
	return &UserListHandler{uc: uc}
}

// List renders every user, newest first. Values are escaped by the template engine.
func (h *UserListHandler) List(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err, "remote_addr", c.ClientIP())
		c.String(http.StatusInternalServerError, "Database error. Please try again later.")
		return
	}
	c.HTML(http.StatusOK, view.UsersPage, gin.H{"Users": dto.UserRowsFromEntities(users)})
}
