package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cancerpredict/internal/database"
	"cancerpredict/internal/models"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash. Longer ones are
// rejected rather than silently truncated.
const MaxPasswordBytes = 72

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// AuthResult tells which branch Authenticate took.
type AuthResult int

const (
	Rejected AuthResult = iota
	Verified
	Registered
)

func (r AuthResult) OK() bool {
	return r == Verified || r == Registered
}

func (r AuthResult) String() string {
	switch r {
	case Verified:
		return "verified"
	case Registered:
		return "registered"
	default:
		return "rejected"
	}
}

type UserService struct {
	db   *database.DB
	cost int
}

func NewUserService(db *database.DB, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{db: db, cost: cost}
}

func (s *UserService) Create(ctx context.Context, username, password string) (*models.Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, hash,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.Credential{Username: username, PasswordHash: hash}, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	var cred models.Credential
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&cred.Username, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &cred, nil
}

// Authenticate checks username/password against the credential store. An
// unknown username is registered with the given password and accepted, so
// the only way to be rejected is a wrong password for an existing account,
// or a password bcrypt cannot hash.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	if len(password) > MaxPasswordBytes {
		return Rejected, nil
	}

	cred, err := s.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		_, err := s.Create(ctx, username, password)
		if err == nil {
			return Registered, nil
		}
		if !errors.Is(err, ErrUserExists) {
			return Rejected, err
		}
		// Lost a registration race; the winner's password decides.
		if cred, err = s.GetByUsername(ctx, username); err != nil {
			return Rejected, err
		}
	case err != nil:
		return Rejected, err
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Rejected, nil
		}
		return Rejected, fmt.Errorf("failed to compare passwords: %w", err)
	}

	return Verified, nil
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
