package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pmhscreen/internal/model"
)

type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo stores users in the users table
func NewSQLiteUserRepo(db *sql.DB) UserRepo {
	return &sqliteUserRepo{db: db}
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *model.User) error {
	if err := prepareUser(user); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `email = ?`, normalizeEmail(email))
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *sqliteUserRepo) getOne(ctx context.Context, where string, arg string) (*model.User, error) {
	var (
		user      model.User
		createdAt string
		lastLogin sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, last_login
		FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &createdAt, &lastLogin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %s created_at: %w", user.ID, err)
	}
	if user.LastLogin, err = parseNullTime(lastLogin); err != nil {
		return nil, fmt.Errorf("user %s last_login: %w", user.ID, err)
	}
	return &user, nil
}

func (r *sqliteUserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id)
	return err
}
