package servers

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/nets"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/projects"
	"golang.org/x/net/netutil"
)

//go:embed index.html
var indexHTML []byte

type Options struct {
	Addr       string
	Width      int
	Height     int
	Store      projects.Store
	NewSession playgrounds.NewSession
	Logger     logs.Logger
	// MaxConns bounds concurrent connections, 0 means the default
	MaxConns int
}

// Server is the browser front end: the page at / and one websocket per
// tab at /ws.
type Server struct {
	addr       string
	width      int
	height     int
	store      projects.Store
	newSession playgrounds.NewSession
	logger     logs.Logger
	maxConns   int
	upgrader   websocket.Upgrader
	nextID     atomic.Int64

	mu      sync.Mutex
	clients map[int64]*client
}

func New(opts Options) *Server {
	s := &Server{
		addr:       opts.Addr,
		width:      opts.Width,
		height:     opts.Height,
		store:      opts.Store,
		newSession: opts.NewSession,
		logger:     opts.Logger,
		maxConns:   opts.MaxConns,
		clients:    make(map[int64]*client),
	}
	if s.maxConns <= 0 {
		s.maxConns = 64
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveIndex)
	mux.HandleFunc("GET /ws", s.serveWebsocket)
	mux.HandleFunc("GET /qr/{hash}", s.serveQR)
	return mux
}

const qrSize = 256

// serveQR shows a share link as a QR code, for opening it on a phone.
func (s *Server) serveQR(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if _, err := projects.DecodeShare(hash); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	data, err := projects.ShareQR(projects.ShareURL(scheme+"://"+r.Host, hash), qrSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade", "error", err)
		return
	}

	project, err := s.store.Load()
	if err != nil {
		s.logger.Warn("load project", "error", err)
		project = projects.New()
	}

	c := s.newClient(s.nextID.Add(1), conn)
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	c.logger.Info("connected", "remote", r.RemoteAddr)
	defer func() {
		c.shutdown()
		s.mu.Lock()
		delete(s.clients, c.id)
		s.mu.Unlock()
		c.logger.Info("disconnected")
	}()

	go c.writePump()
	width, height := c.canvas.Size()
	c.send(TypeHello, HelloMessage{
		Width:   width,
		Height:  height,
		Project: project,
	})
	c.attach()
	c.readPump()
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) autosave(project *projects.Project) {
	if err := s.store.Save(project); err != nil {
		s.logger.Warn("save project", "error", err)
	}
}

// Serve listens on the configured address until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	if !nets.IsLoopbackListen(ln.Addr().String()) {
		s.logger.Warn("listening beyond loopback, anyone who can reach it can run programs", "addr", ln.Addr().String())
	}
	ln = netutil.LimitListener(ln, s.maxConns)

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		s.closeAll()
	}()

	s.logger.Info("serving", "addr", ln.Addr().String())
	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// closeAll drops the websockets, which Shutdown leaves alone.
func (s *Server) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}
