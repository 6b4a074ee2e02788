package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luca-patrignani/holdem-server/auth"
	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/game"
	"github.com/luca-patrignani/holdem-server/queue"
	"github.com/luca-patrignani/holdem-server/store"
)

const shutdownGrace = 10 * time.Second

// NewLogger builds the production zap logger at the configured level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Server owns every long-lived component of the table server.
type Server struct {
	log     *zap.Logger
	cfg     Config
	creds   store.CredentialStore
	queuer  *queue.Queuer
	manager *auth.Manager
	closers []func()

	mu   sync.Mutex
	live map[string]*channel.Session
}

// New builds the server from its configuration. Store backends are opened
// here; no socket is listening until Run.
func New(ctx context.Context, log *zap.Logger, cfg Config) (*Server, error) {
	s := &Server{
		log:  log,
		cfg:  cfg,
		live: make(map[string]*channel.Session),
	}

	creds, sessions, err := s.openStores(ctx, cfg.Stores)
	if err != nil {
		return nil, err
	}
	s.creds = creds

	secret, err := signingSecret(cfg)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokens(secret)

	if cfg.Ranked {
		s.queuer = queue.NewRanked(log)
	} else {
		s.queuer = queue.NewSimple(log)
	}
	s.queuer.SetRoomFactory(s.newRoom)
	s.manager = auth.NewManager(log, creds, sessions, tokens, s.admit)
	return s, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts the
// accept loop down, tells every live session the server is going away and
// closes the store backends.
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.queuer.Run(runCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.manager.Start(s.cfg.Listen)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()
	if serr := s.manager.Shutdown(shutdownCtx); err == nil {
		err = serr
	}
	s.broadcastShutdown()
	wg.Wait()

	for _, closeStore := range s.closers {
		closeStore()
	}
	return err
}

// admit records the session as live and routes it into matchmaking. A newer
// connection for the same username replaces the old entry; the queue and
// room layers notify and close the superseded channel. Entries whose
// channel has since been closed are swept here, so the map stays bounded by
// the set of live connections.
func (s *Server) admit(sess *channel.Session) {
	s.mu.Lock()
	for username, old := range s.live {
		if old.Channel.IsClosed() {
			delete(s.live, username)
		}
	}
	s.live[sess.Username] = sess
	s.mu.Unlock()
	s.queuer.QueuePlayer(sess)
}

func (s *Server) newRoom(members []*channel.Session) queue.Room {
	usernames := make([]string, len(members))
	for i, m := range members {
		usernames[i] = m.Username
	}
	engine, err := game.NewHoldemEngine(usernames)
	if err != nil {
		// The queue only ever hands over a full table.
		panic(err)
	}
	return game.NewOrchestrator(s.log, s.queuer, s.creds, s.cfg.Ranked, engine, members)
}

func (s *Server) broadcastShutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.live {
		if sess.Channel.IsClosed() {
			continue
		}
		_ = sess.Channel.EndConnection("Server is shutting down")
		sess.Channel.Close()
	}
}

// openStores builds the credential and session backends. When both sides run
// in memory they share one instance.
func (s *Server) openStores(ctx context.Context, cfg StoreConfig) (store.CredentialStore, store.SessionStore, error) {
	mem := store.NewMemory()

	var creds store.CredentialStore = mem
	if cfg.Credentials == BackendPostgres {
		pg, err := store.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres: %w", err)
		}
		s.closers = append(s.closers, pg.Close)
		creds = pg
	}

	var sessions store.SessionStore = mem
	if cfg.Sessions == BackendRedis {
		rd, err := store.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rd.Close() })
		sessions = rd
	}
	return creds, sessions, nil
}

// signingSecret returns the configured token secret, or a random one, in
// which case tokens do not survive a restart.
func signingSecret(cfg Config) ([]byte, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating token secret: %w", err)
	}
	return secret, nil
}
