package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/auth/password"
)

// Store is the credential store: username -> password hash, role.
type Store interface {
	CreateUser(ctx context.Context, username, plaintext string, role Role) (bool, error)
	Authenticate(ctx context.Context, username, plaintext string) (Role, bool, error)
	GetRole(ctx context.Context, username string) (Role, bool, error)
	ListUsers(ctx context.Context, role Role) ([]User, error)
	DeleteUser(ctx context.Context, username string) (bool, error)
	UpdateRole(ctx context.Context, username string, role Role) (bool, error)
	UpdatePassword(ctx context.Context, username, newPlaintext string) (bool, error)
	Exists(ctx context.Context, username string) (bool, error)
}

type SQLStore struct {
	db     *sql.DB
	hasher password.Hasher
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, hasher password.Hasher) *SQLStore {
	return &SQLStore{db: db, hasher: hasher, now: time.Now}
}

// CanonicalUsername is the form every store lookup and mutation keys on.
func CanonicalUsername(u string) string {
	return strings.TrimSpace(u)
}

// SameAccount reports whether two usernames address the same account.
func SameAccount(a, b string) bool {
	return CanonicalUsername(a) == CanonicalUsername(b)
}

func normalizeUsername(u string) (string, error) {
	u = CanonicalUsername(u)
	if u == "" {
		return "", fmt.Errorf("username required: %w", apperr.ErrInvalid)
	}
	return u, nil
}

// CreateUser returns false when the username is already taken. Uniqueness is
// enforced by the primary key, so concurrent registrations cannot both win.
func (s *SQLStore) CreateUser(ctx context.Context, username, plaintext string, role Role) (bool, error) {
	if plaintext == "" {
		return false, fmt.Errorf("password required: %w", apperr.ErrInvalid)
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return false, err
	}
	return s.CreateUserWithHash(ctx, username, hash, role)
}

// CreateUserWithHash inserts a user whose password is already hashed
// (admin bootstrap from configuration).
func (s *SQLStore) CreateUserWithHash(ctx context.Context, username, hash string, role Role) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	if !role.Valid() {
		return false, fmt.Errorf("role %q: %w", role, apperr.ErrInvalid)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (username) DO NOTHING`,
		username, hash, string(role), s.now().Unix())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLStore) Authenticate(ctx context.Context, username, plaintext string) (Role, bool, error) {
	var hash, role string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, role FROM users WHERE username=$1`, CanonicalUsername(username)).Scan(&hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !s.hasher.Verify(plaintext, hash) {
		return "", false, nil
	}
	return Role(role), true, nil
}

// GetRole reports ok=false both for unknown users and users without a role.
func (s *SQLStore) GetRole(ctx context.Context, username string) (Role, bool, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM users WHERE username=$1`, CanonicalUsername(username)).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if role == "" {
		return "", false, nil
	}
	return Role(role), true, nil
}

func (s *SQLStore) ListUsers(ctx context.Context, role Role) ([]User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT username, role, created_at FROM users ORDER BY username`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT username, role, created_at FROM users WHERE role=$1 ORDER BY username`, string(role))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		var r string
		if err := rows.Scan(&u.Username, &r, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = Role(r)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteUser(ctx context.Context, username string) (bool, error) {
	return s.execOne(ctx, `DELETE FROM users WHERE username=$1`, CanonicalUsername(username))
}

func (s *SQLStore) UpdateRole(ctx context.Context, username string, role Role) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("role %q: %w", role, apperr.ErrInvalid)
	}
	return s.execOne(ctx, `UPDATE users SET role=$1 WHERE username=$2`, string(role), CanonicalUsername(username))
}

func (s *SQLStore) UpdatePassword(ctx context.Context, username, newPlaintext string) (bool, error) {
	if newPlaintext == "" {
		return false, fmt.Errorf("new password required: %w", apperr.ErrInvalid)
	}
	hash, err := s.hasher.Hash(newPlaintext)
	if err != nil {
		return false, err
	}
	return s.execOne(ctx, `UPDATE users SET password_hash=$1 WHERE username=$2`, hash, CanonicalUsername(username))
}

func (s *SQLStore) Exists(ctx context.Context, username string) (bool, error) {
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, CanonicalUsername(username)).Scan(new(int))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) execOne(ctx context.Context, q string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
