// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StorageState reports whether the user store has been created yet.
type StorageState interface {
	Initialized() bool
}

// Health returns the /healthz handler.
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(storage StorageState) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			state := "empty"
			if storage != nil && storage.Initialized() {
				state = "initialized"
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": state})
		}
	}
}
