package adapters

import (
	"context"

	"gorm.io/gorm"

	"registration_backend/internal/feature/registration/usecase"
)

// Opener opens a storage handle scoped to one request.
// It is satisfied by *db.Store.
type Opener interface {
	Open(ctx context.Context) (*gorm.DB, func(), error)
	Initialized() bool
}

// userStore implements usecase.UserStore on top of an Opener.
type userStore struct {
	opener Opener
}

var _ usecase.UserStore = (*userStore)(nil)

// NewUserStore creates a UserStore that opens a new handle on every Acquire.
func NewUserStore(opener Opener) *userStore {
	return &userStore{opener: opener}
}

// Acquire opens a handle and returns a repository bound to it.
func (s *userStore) Acquire(ctx context.Context) (usecase.UserRepository, func(), error) {
	gdb, release, err := s.opener.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return NewUserSQLite(gdb), release, nil
}

// Initialized reports whether the underlying store already exists.
func (s *userStore) Initialized() bool {
	return s.opener.Initialized()
}
