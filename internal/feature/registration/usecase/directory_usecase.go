package usecase

import (
	"context"
	"fmt"

	"registration_backend/internal/feature/registration/domain/entity"
)

// DirectoryUsecase serves the read-only user listing.
type DirectoryUsecase struct {
	store UserStore
	cache UserListCache
}

// NewDirectoryUsecase creates a DirectoryUsecase. cache may be nil.
func NewDirectoryUsecase(store UserStore, cache UserListCache) *DirectoryUsecase {
	return &DirectoryUsecase{store: store, cache: cache}
}

// ListUsers returns all users, newest first.
// Before the first registration there is nothing to read, so an empty list is returned
// without creating the data location.
func (u *DirectoryUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	// 書き込み前に読んだ一覧が新しい世代に保存されないよう、世代はDB読み出し前に取得する
	gen := int64(-1)
	if u.cache != nil {
		users, g, ok := u.cache.Get(ctx)
		if ok {
			return users, nil
		}
		gen = g
	}

	if !u.store.Initialized() {
		return []entity.User{}, nil
	}

	repo, release, err := u.store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}
	defer release()

	users, err := repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if u.cache != nil {
		u.cache.Set(ctx, gen, users)
	}
	return users, nil
}
