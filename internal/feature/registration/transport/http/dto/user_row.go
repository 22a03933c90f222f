package dto

import (
	"time"

	"registration_backend/internal/feature/registration/domain/entity"
)

// UserRow is one line of the user listing page.
type UserRow struct {
	ID        uint
	Username  string
	Name      string
	Gender    string
	CreatedAt time.Time
}

// UserRowsFromEntities converts users for display; the password hash never leaves the usecase layer.
func UserRowsFromEntities(users []entity.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, UserRow{
			ID:        u.ID,
			Username:  u.Username,
			Name:      u.Name,
			Gender:    string(u.Gender),
			CreatedAt: u.CreatedAt,
		})
	}
	return rows
}
