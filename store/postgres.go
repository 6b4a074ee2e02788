package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	rank          INTEGER NOT NULL
)`

// Postgres persists accounts in PostgreSQL through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the given DSN and ensures the schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, accountsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating accounts table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }

// Authenticate implements CredentialStore.
func (p *Postgres) Authenticate(ctx context.Context, username, password string) (User, bool, error) {
	var hash string
	var rank int
	err := p.pool.QueryRow(ctx,
		`SELECT password_hash, rank FROM accounts WHERE username = $1`,
		username).Scan(&hash, &rank)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return p.register(ctx, username, password)
	case err != nil:
		return User{}, false, fmt.Errorf("looking up %s: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, false, ErrWrongPassword
	}
	return User{Username: username, Rank: rank}, false, nil
}

func (p *Postgres) register(ctx context.Context, username, password string) (User, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, false, err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO accounts (username, password_hash, rank) VALUES ($1, $2, $3)`,
		username, string(hash), DefaultRank)
	if err != nil {
		return User{}, false, fmt.Errorf("registering %s: %w", username, err)
	}
	return User{Username: username, Rank: DefaultRank}, true, nil
}

// Rank implements CredentialStore.
func (p *Postgres) Rank(ctx context.Context, username string) (int, error) {
	var rank int
	err := p.pool.QueryRow(ctx,
		`SELECT rank FROM accounts WHERE username = $1`, username).Scan(&rank)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return 0, ErrUnknownUser
	case err != nil:
		return 0, fmt.Errorf("reading rank of %s: %w", username, err)
	}
	return rank, nil
}

// AddRank implements CredentialStore.
func (p *Postgres) AddRank(ctx context.Context, username string, delta int) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE accounts SET rank = rank + $1 WHERE username = $2`, delta, username)
	if err != nil {
		return fmt.Errorf("updating rank of %s: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownUser
	}
	return nil
}
