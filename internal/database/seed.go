package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// EnsureDefaultAdmin создает учетную запись администратора по умолчанию,
// если в базе еще нет ни одного администратора. Администраторы не
// регистрируются через signup, поэтому без этой записи портал
// неуправляем после чистой миграции.
func EnsureDefaultAdmin(ctx context.Context, db *sql.DB, email, password string, logger zerolog.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, nsu_id, department, verified, created_at)
		VALUES ($1, $2, lower($3), $4, 'admin', $5, $6, TRUE, $7)
	`

	id := uuid.New().String()
	_, err = db.ExecContext(ctx, query, id, "System Admin", email, string(hash), "ADM-0001", "Administration", time.Now())
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	logger.Info().Str("user_id", id).Str("email", email).Msg("Seeded default admin account")
	return nil
}
