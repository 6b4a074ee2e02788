package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type memoryAccount struct {
	passwordHash []byte
	rank         int
}

type memorySession struct {
	token   string
	expires time.Time
}

// Memory keeps accounts and sessions in process memory. It backs tests and
// single-node games that do not need persistence across restarts.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount
	sessions map[string]memorySession
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*memoryAccount),
		sessions: make(map[string]memorySession),
	}
}

// Authenticate implements CredentialStore.
func (m *Memory) Authenticate(_ context.Context, username, password string) (User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[username]
	if !ok {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, false, err
		}
		m.accounts[username] = &memoryAccount{passwordHash: hash, rank: DefaultRank}
		return User{Username: username, Rank: DefaultRank}, true, nil
	}

	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return User{}, false, ErrWrongPassword
	}
	return User{Username: username, Rank: acct.rank}, false, nil
}

// Rank implements CredentialStore.
func (m *Memory) Rank(_ context.Context, username string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[username]
	if !ok {
		return 0, ErrUnknownUser
	}
	return acct.rank, nil
}

// AddRank implements CredentialStore.
func (m *Memory) AddRank(_ context.Context, username string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[username]
	if !ok {
		return ErrUnknownUser
	}
	acct.rank += delta
	return nil
}

// SetToken implements SessionStore.
func (m *Memory) SetToken(_ context.Context, username, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[username] = memorySession{token: token, expires: time.Now().Add(ttl)}
	return nil
}

// Token implements SessionStore.
func (m *Memory) Token(_ context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[username]
	if !ok || time.Now().After(sess.expires) {
		delete(m.sessions, username)
		return "", ErrUnknownUser
	}
	return sess.token, nil
}

// ClearToken implements SessionStore.
func (m *Memory) ClearToken(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, username)
	return nil
}
