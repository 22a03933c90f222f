package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"registration_backend/internal/feature/registration/domain/entity"
)

// bcryptInputLimit is the number of password bytes bcrypt takes into account.
const bcryptInputLimit = 72

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// ExistsByUsername reports whether a user with exactly this username is stored.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create inserts the user and fills in ID and timestamps.
	// It returns ErrUsernameTaken when the unique constraint rejects the row.
	Create(ctx context.Context, user *entity.User) error

	// ListNewestFirst returns every user ordered by creation time, newest first.
	ListNewestFirst(ctx context.Context) ([]entity.User, error)
}

// UserStore hands out a repository bound to a freshly opened storage handle.
// The returned release func must be called once the request is done with the repository.
type UserStore interface {
	Acquire(ctx context.Context) (UserRepository, func(), error)

	// Initialized reports whether the backing data location already exists.
	Initialized() bool
}

// UserListCache caches the user listing under a generation that every successful write advances.
type UserListCache interface {
	// Get returns the listing cached for the current generation along with that generation.
	// gen is negative when the generation itself could not be read.
	Get(ctx context.Context) (users []entity.User, gen int64, ok bool)

	// Set stores users for gen. A listing read before a write lands under the old generation
	// and is never served again.
	Set(ctx context.Context, gen int64, users []entity.User)

	// Invalidate advances the generation.
	Invalidate(ctx context.Context)
}

// RegistrationUsecase runs the sanitize, validate, check and write steps of a registration.
type RegistrationUsecase struct {
	store    UserStore
	cache    UserListCache
	hashCost int
}

// Option configures a RegistrationUsecase.
type Option func(*RegistrationUsecase)

// WithHashCost overrides the bcrypt cost. Values outside bcrypt's range fall back to bcrypt.DefaultCost.
func WithHashCost(cost int) Option {
	return func(u *RegistrationUsecase) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			u.hashCost = cost
		}
	}
}

// NewRegistrationUsecase creates a RegistrationUsecase. cache may be nil.
func NewRegistrationUsecase(store UserStore, cache UserListCache, opts ...Option) *RegistrationUsecase {
	u := &RegistrationUsecase{
		store:    store,
		cache:    cache,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register stores a new user and returns its ID.
// Failures are returned as *RegistrationError carrying one of the ErrorKind values.
//
// The existence check is only a fast path for a friendly message: two concurrent requests may both pass it,
// and the unique index on username decides which insert wins. The loser is reported as a duplicate as well.
func (u *RegistrationUsecase) Register(ctx context.Context, in RegistrationInput) (uint, error) {
	in = Sanitize(in)
	if msgs := Validate(in); len(msgs) > 0 {
		return 0, validationError(msgs)
	}

	repo, release, err := u.store.Acquire(ctx)
	if err != nil {
		return 0, storageError(fmt.Errorf("failed to open user store: %w", err))
	}
	defer release()

	exists, err := repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return 0, storageError(fmt.Errorf("failed to check username: %w", err))
	}
	if exists {
		return 0, duplicateError(ErrUsernameTaken)
	}

	hashed, err := u.hashPassword(in.Password)
	if err != nil {
		return 0, storageError(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &entity.User{
		Username:     in.Username,
		Name:         in.Name,
		Gender:       entity.Gender(in.Gender),
		PasswordHash: hashed,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			slog.Info("username taken between check and insert", "username", in.Username)
			return 0, duplicateError(err)
		}
		return 0, storageError(fmt.Errorf("failed to create user: %w", err))
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx)
	}
	return user.ID, nil
}

// hashPassword returns a salted bcrypt digest. Inputs longer than bcrypt's 72-byte window
// are reduced with SHA-256 first so that every character of a long password counts.
func (u *RegistrationUsecase) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(passwordKey(password), u.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// passwordKey is the byte string fed to bcrypt for a password.
func passwordKey(password string) []byte {
	if len(password) <= bcryptInputLimit {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
