package usecase

import (
	"context"

	"registration_backend/internal/feature/registration/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	CreateFunc           func(ctx context.Context, user *entity.User) error
	ListNewestFirstFunc  func(ctx context.Context) ([]entity.User, error)
}

// ExistsByUsername is the mock implementation of the ExistsByUsername method.
func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil // Default: username is free
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

// ListNewestFirst is the mock implementation of the ListNewestFirst method.
func (m *mockUserRepository) ListNewestFirst(ctx context.Context) ([]entity.User, error) {
	if m.ListNewestFirstFunc != nil {
		return m.ListNewestFirstFunc(ctx)
	}
	return nil, nil
}

// mockUserStore hands out the configured repository and records acquisitions and releases.
type mockUserStore struct {
	repo        UserRepository
	acquireErr  error
	initialized bool

	acquired int
	released int
}

func (m *mockUserStore) Acquire(ctx context.Context) (UserRepository, func(), error) {
	m.acquired++
	if m.acquireErr != nil {
		return nil, nil, m.acquireErr
	}
	return m.repo, func() { m.released++ }, nil
}

func (m *mockUserStore) Initialized() bool {
	return m.initialized
}

// mockUserListCache is an in-memory UserListCache keyed by generation.
type mockUserListCache struct {
	gen     int64
	entries map[int64][]entity.User

	sets        int
	invalidated int
}

func (m *mockUserListCache) Get(ctx context.Context) ([]entity.User, int64, bool) {
	users, ok := m.entries[m.gen]
	return users, m.gen, ok
}

func (m *mockUserListCache) Set(ctx context.Context, gen int64, users []entity.User) {
	m.sets++
	if gen < 0 {
		return
	}
	if m.entries == nil {
		m.entries = map[int64][]entity.User{}
	}
	m.entries[gen] = users
}

func (m *mockUserListCache) Invalidate(ctx context.Context) {
	m.invalidated++
	m.gen++
}
