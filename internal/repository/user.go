package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campdir/campdir-api/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `id, name, email, role, password_hash, reset_token_hash, reset_token_expiry, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, email, role, password_hash) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.Role, user.PasswordHash)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByResetToken retrieves the user holding the given reset token
// digest. Expiry is the caller's concern; an expired token still resolves
// here so the service can clear it.
func (r *UserRepository) GetByResetToken(ctx context.Context, digest string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token_hash = ?`, digest)
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}

// SetResetToken stores a reset token digest and its expiry on a user.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, digest string, expiry time.Time) error {
	query := `UPDATE users SET reset_token_hash = ?, reset_token_expiry = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, digest, expiry, id)
	return err
}

// ClearResetToken removes any reset token from a user. Used both after a
// successful reset and to roll back when the reset mail cannot be sent.
func (r *UserRepository) ClearResetToken(ctx context.Context, id int64) error {
	query := `UPDATE users SET reset_token_hash = '', reset_token_expiry = NULL WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	var expiry sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.PasswordHash,
		&user.ResetTokenHash, &expiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if expiry.Valid {
		user.ResetTokenExpiry = &expiry.Time
	}

	return user, nil
}
