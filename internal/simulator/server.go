package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

// Options configures the simulator server.
type Options struct {
	Addr string
	Path string
	Plan Plan

	PositionEvery  time.Duration
	BatteryEvery   time.Duration
	HeartbeatEvery time.Duration

	// Schema selects the battery field names; see telemetry.Encode.
	Schema int
	// MalformedEvery replaces every Nth frame with an undecodable one.
	// Zero disables injection.
	MalformedEvery int

	Logger log.Logger
}

const (
	defaultAddr     = "127.0.0.1:3000"
	defaultPath     = "/ws"
	writeWait       = 2 * time.Second
	shutdownTimeout = 2 * time.Second
)

var malformedFrames = [][]byte{
	[]byte(`{"type":"GlobalPosition","data":{"lat":"north","lon":8.5}}`),
	[]byte(`{"type":"Attitude","data":{"roll":0.1}}`),
	[]byte(`{"type":"BatteryStatus"`),
	[]byte(`{"type":"Heartbeat","v":7,"data":{"timestamp":"2025-01-01T00:00:00Z"}}`),
}

// Server streams synthetic telemetry to every connected WebSocket client.
type Server struct {
	opts     Options
	gen      *Generator
	upgrader websocket.Upgrader
	logger   log.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	sent    int
}

// New validates opts and builds a server. Takeoff is the moment New returns.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.Path == "" {
		opts.Path = defaultPath
	}
	if len(opts.Plan.Waypoints) == 0 {
		opts.Plan = DefaultPlan()
	}
	if err := opts.Plan.Validate(); err != nil {
		return nil, fmt.Errorf("flight plan: %w", err)
	}
	if opts.PositionEvery <= 0 {
		opts.PositionEvery = 200 * time.Millisecond
	}
	if opts.BatteryEvery <= 0 {
		opts.BatteryEvery = time.Second
	}
	if opts.HeartbeatEvery <= 0 {
		opts.HeartbeatEvery = time.Second
	}
	if opts.Schema < telemetry.SchemaAuto || opts.Schema > telemetry.SchemaV2 {
		return nil, fmt.Errorf("%w: %d", telemetry.ErrUnsupportedVersion, opts.Schema)
	}
	if opts.MalformedEvery < 0 {
		return nil, errors.New("malformed-every must not be negative")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := &Server{
		opts:   opts,
		logger: logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
	s.gen = NewGenerator(opts.Plan, s.now())
	return s, nil
}

// Handler serves the WebSocket endpoint, a health check and the active
// flight plan as YAML.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(s.opts.Path, s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/plan", s.handlePlan).Methods(http.MethodGet)
	return r
}

func (s *Server) handlePlan(w http.ResponseWriter, _ *http.Request) {
	data, err := yaml.Marshal(s.gen.Plan())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

// Clients reports how many connections are attached.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run listens on opts.Addr and streams until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("simulator listening",
			"addr", ln.Addr().String(),
			"path", s.opts.Path,
			"plan", s.opts.Plan.Name,
			"schema", s.opts.Schema,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeAll()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.stream(gctx)
		return nil
	})
	return g.Wait()
}

func (s *Server) stream(ctx context.Context) {
	pos := time.NewTicker(s.opts.PositionEvery)
	defer pos.Stop()
	bat := time.NewTicker(s.opts.BatteryEvery)
	defer bat.Stop()
	hb := time.NewTicker(s.opts.HeartbeatEvery)
	defer hb.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-pos.C:
			s.broadcast(telemetry.PositionMessage(s.gen.Position(t)))
		case t := <-bat.C:
			s.broadcast(telemetry.BatteryMessage(s.gen.Battery(t)))
		case t := <-hb.C:
			s.broadcast(telemetry.HeartbeatMessage(s.gen.Heartbeat(t)))
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err.Error())
		return
	}

	// Prime the client with one of each kind so the dashboard fills at once.
	now := s.now()
	initial := []telemetry.Message{
		telemetry.HeartbeatMessage(s.gen.Heartbeat(now)),
		telemetry.PositionMessage(s.gen.Position(now)),
		telemetry.BatteryMessage(s.gen.Battery(now)),
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	for _, msg := range initial {
		if err := s.writeLocked(conn, msg); err != nil {
			s.dropLocked(conn)
			break
		}
	}
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", r.RemoteAddr, "clients", s.Clients())

	go s.readPump(conn, r.RemoteAddr)
}

// readPump discards inbound frames and detaches the client on close.
func (s *Server) readPump(conn *websocket.Conn, remote string) {
	defer func() {
		s.mu.Lock()
		s.dropLocked(conn)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "remote", remote, "clients", s.Clients())
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(msg telemetry.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if err := s.writeLocked(c, msg); err != nil {
			s.logger.Debug("dropping client", "error", err.Error())
			s.dropLocked(c)
		}
	}
}

// writeLocked encodes msg, or substitutes a malformed frame on schedule.
// Callers hold s.mu, which also serialises writes per connection.
func (s *Server) writeLocked(conn *websocket.Conn, msg telemetry.Message) error {
	s.sent++
	var frame []byte
	if n := s.opts.MalformedEvery; n > 0 && s.sent%n == 0 {
		frame = malformedFrames[(s.sent/n-1)%len(malformedFrames)]
	} else {
		var err error
		frame, err = telemetry.Encode(msg, s.opts.Schema)
		if err != nil {
			return err
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *Server) dropLocked(conn *websocket.Conn) {
	if _, ok := s.clients[conn]; !ok {
		return
	}
	delete(s.clients, conn)
	_ = conn.Close()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulator stopping")
	for c := range s.clients {
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		delete(s.clients, c)
		_ = c.Close()
	}
}
