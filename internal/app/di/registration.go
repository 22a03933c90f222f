// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"registration_backend/internal/feature/registration/adapters"
	"registration_backend/internal/feature/registration/transport/handler"
	"registration_backend/internal/feature/registration/usecase"
	"registration_backend/internal/platform/cache"
	"registration_backend/internal/platform/db"
)

// Registration bundles the wired components of the registration feature.
type Registration struct {
	Store    *db.Store
	Register *handler.RegistrationHandler
	Users    *handler.UserListHandler
}

// NewRegistration wires storage, cache, usecases and handlers.
// rdb may be nil, in which case the listing is read from storage on every request.
// A bcryptCost of 0 keeps the default cost.
func NewRegistration(dbCfg db.Config, rdb *redis.Client, cacheTTL time.Duration, bcryptCost int) *Registration {
	store := db.NewStore(dbCfg)
	userStore := adapters.NewUserStore(store)

	// rdbがnilの場合、キャッシュは何もしない
	listCache := cache.NewUserListCache(rdb, cacheTTL, "users")

	registerUC := usecase.NewRegistrationUsecase(userStore, listCache, usecase.WithHashCost(bcryptCost))
	directoryUC := usecase.NewDirectoryUsecase(userStore, listCache)

	return &Registration{
		Store:    store,
		Register: handler.NewRegistrationHandler(registerUC),
		Users:    handler.NewUserListHandler(directoryUC),
	}
}
