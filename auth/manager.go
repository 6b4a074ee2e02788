package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/store"
)

// Handoff receives every freshly authenticated session, normally the
// matchmaking queue.
type Handoff func(*channel.Session)

// Manager accepts websocket connections and authenticates each one on its
// own goroutine before handing the session off.
type Manager struct {
	log      *zap.Logger
	creds    store.CredentialStore
	sessions store.SessionStore
	tokens   *Tokens
	handoff  Handoff

	upgrader websocket.Upgrader
	server   *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager wires the accept loop. Nothing listens until Start.
func NewManager(log *zap.Logger, creds store.CredentialStore, sessions store.SessionStore, tokens *Tokens, handoff Handoff) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		log:      log,
		creds:    creds,
		sessions: sessions,
		tokens:   tokens,
		handoff:  handoff,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start listens on addr and serves until Shutdown. It blocks, so callers
// run it on its own goroutine.
func (m *Manager) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/play", m.handleConnection)
	m.server = &http.Server{Addr: addr, Handler: mux}

	m.log.Info("accepting connections", zap.String("addr", addr))
	if err := m.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Manager) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	ch := channel.NewServerChannel(channel.NewWebsocketTransport(conn))
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.authenticate(ch)
	}()
}

func (m *Manager) authenticate(ch *channel.ServerChannel) {
	session, err := NewAuthenticator(m.log, m.creds, m.sessions, m.tokens, ch).Run(m.ctx)
	if err != nil || session == nil {
		ch.Close()
		return
	}
	m.handoff(session)
}

// Shutdown stops accepting connections and waits briefly for in-flight
// authentications to resolve.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	var err error
	if m.server != nil {
		err = m.server.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
	return err
}
