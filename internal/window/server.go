// Package window serves the browser chat window: an embedded single-page UI
// talking to the agent over a websocket.
package window

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/bus"
)

//go:embed static
var staticFiles embed.FS

// NewThreadID returns a fresh chat window thread id.
func NewThreadID() string {
	return "ui-session-" + uuid.NewString()
}

// Server is the HTTP front of the browser chat window.
type Server struct {
	addr     string
	hub      *Hub
	metrics  http.Handler
	upgrader websocket.Upgrader
	ctx      context.Context
}

// NewServer creates a Server listening on addr. metrics may be nil.
func NewServer(addr string, b bus.Bus, metrics http.Handler) *Server {
	s := &Server{
		addr:    addr,
		hub:     NewHub(b),
		metrics: metrics,
		ctx:     context.Background(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     sameOrigin,
	}
	return s
}

// Hub returns the connection hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the routes: "/", "/ws", "/healthz" and "/metrics".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.ctx = ctx

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() { errCh <- s.hub.Run(ctx) }()
	go func() {
		zap.L().Info("window: listening", zap.String("url", "http://"+ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if ctx.Err() == nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return ctx.Err()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("window: upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   NewThreadID(),
		conn: conn,
		send: make(chan Frame, sendBuffer),
		hub:  s.hub,
	}
	s.hub.register(c)
	s.hub.deliverTo(c, Frame{Type: FrameSession, ThreadID: c.id})
	s.hub.deliverTo(c, Frame{Type: FrameMessage, Sender: SenderJarvis, Content: greeting})

	go c.writePump()
	go c.readPump(s.ctx)
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
