package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/pkg/models"
)

// uniqueViolation is the SQLSTATE raised when the unique index on mail fires.
const uniqueViolation = "23505"

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                TEXT PRIMARY KEY,
	login             TEXT NOT NULL,
	mail              TEXT NOT NULL,
	firstname         TEXT NOT NULL DEFAULT '',
	lastname          TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'active',
	admin             BOOLEAN NOT NULL DEFAULT FALSE,
	credential_digest TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_mail_key ON users (lower(mail));
`

// PostgresStore implements UserStore on top of a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and ensures the users schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, usersSchema); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("PostgreSQL user store ready")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, mail string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, login, mail, firstname, lastname, status, admin, credential_digest, created_at, updated_at
		FROM users
		WHERE lower(mail) = lower($1)
	`, mail).Scan(
		&u.ID, &u.Login, &u.Mail, &u.Firstname, &u.Lastname,
		&u.Status, &u.Admin, &u.CredentialDigest, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Mail == "" {
		return &ValidationError{Field: "mail", Reason: "cannot be blank"}
	}
	if user.Login == "" {
		return &ValidationError{Field: "login", Reason: "cannot be blank"}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, login, mail, firstname, lastname, status, admin, credential_digest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID, user.Login, user.Mail, user.Firstname, user.Lastname,
		user.Status, user.Admin, user.CredentialDigest, user.CreatedAt, user.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ValidationError{Field: "mail", Reason: "has already been taken"}
	}
	return err
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET login = $2, firstname = $3, lastname = $4, status = $5, admin = $6, updated_at = $7
		WHERE id = $1
	`,
		user.ID, user.Login, user.Firstname, user.Lastname,
		user.Status, user.Admin, user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &ValidationError{Field: "id", Reason: "does not exist"}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
