// Package adapters はregistrationフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"registration_backend/internal/feature/registration/domain/entity"
	"registration_backend/internal/feature/registration/usecase"
)

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// userSQLite はUserRepositoryインターフェースのGORM実装です。
// 既定ではSQLite、設定によりPostgresのハンドルでも動作します。
type userSQLite struct {
	db *gorm.DB
}

// userSQLiteがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userSQLite)(nil)

// NewUserSQLite は指定されたgorm.DB接続でuserSQLiteの新しいインスタンスを生成します。
func NewUserSQLite(db *gorm.DB) *userSQLite {
	return &userSQLite{db: db}
}

// ExistsByUsername は完全一致するユーザー名の件数を数えます。
func (r *userSQLite) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create はユーザーを1つのINSERT文で追加します。
// ユニーク制約に違反した場合、usecase.ErrUsernameTakenを返します。
func (r *userSQLite) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// ListNewestFirst は作成日時の降順ですべてのユーザーを返します。
func (r *userSQLite) ListNewestFirst(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// isUniqueViolation detects a unique-key rejection whether or not gorm translated the driver error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
