// Package preview serves rendered output over HTTP with WebSocket-driven
// live reload for the quill CLI's serve command.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/quill/internal/logging"
)

// RenderFunc produces the current markup for the preview page.
type RenderFunc func() (string, error)

// Server is a minimal preview server: one page, one reload socket.
type Server struct {
	host   string
	port   int
	render RenderFunc
	logger logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	httpServer *http.Server
}

// New creates a preview server for the given render function.
func New(host string, port int, render RenderFunc, logger logging.Logger) *Server {
	return &Server{
		host:    host,
		port:    port,
		render:  render,
		logger:  logger.WithComponent("preview"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Start serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "Preview server listening", "addr", s.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("preview: shutting down: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("preview: serving: %w", err)
	}
}

// Reload notifies every connected client to refresh.
func (s *Server) Reload(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := c.Write(writeCtx, websocket.MessageText, []byte("reload")); err != nil {
			s.logger.Warn(ctx, err, "Dropping unresponsive reload client")
			s.drop(c)
		}
		cancel()
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	markup, err := s.render()
	if err != nil {
		s.logger.Error(r.Context(), err, "Render failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, markup+reloadScript)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // local preview only
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket accept failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Hold the connection open; clients never send anything meaningful.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.Read(context.Background()); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
}

const reloadScript = `<script>
(function () {
	var ws = new WebSocket("ws://" + location.host + "/ws");
	ws.onmessage = function (ev) {
		if (ev.data === "reload") location.reload();
	};
})();
</script>`
