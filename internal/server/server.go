package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
)

var (
	ErrRateLimited = errors.New("server: rate limited")
	ErrBusy        = errors.New("server: command queue full")
)

const commandQueue = 256

type Options struct {
	Addr     string
	Dt       float64
	TickRate int
	// Rate and Burst bound commands per client. Zero Rate disables limiting.
	Rate   float64
	Burst  int
	Logger zerolog.Logger
}

func OptionsFromConfig(cfg *config.Config, log zerolog.Logger) Options {
	return Options{
		Addr:     cfg.Server.Addr,
		Dt:       cfg.Dt,
		TickRate: cfg.TickRate,
		Rate:     cfg.Server.Rate,
		Burst:    cfg.Server.Burst,
		Logger:   log,
	}
}

// Message is every payload written to a client.
type Message struct {
	Type  string           `json:"type"`
	Frame *orrery.Snapshot `json:"frame,omitempty"`
	Do    string           `json:"do,omitempty"`
	Body  string           `json:"body,omitempty"`
	Error string           `json:"error,omitempty"`
}

type command struct {
	from   *client
	action automation.Action
}

type Server struct {
	engine   *orrery.Engine
	opts     Options
	log      zerolog.Logger
	metrics  *Metrics
	hub      *hub
	loop     *sim.Loop
	commands chan command
	upgrader ws.Upgrader
}

func New(engine *orrery.Engine, opts Options) (*Server, error) {
	if opts.Dt <= 0 {
		return nil, fmt.Errorf("server: dt must be positive, got %f", opts.Dt)
	}
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("server: tick rate must be positive, got %d", opts.TickRate)
	}

	s := &Server{
		engine:   engine,
		opts:     opts,
		log:      opts.Logger,
		metrics:  NewMetrics(),
		hub:      newHub(),
		commands: make(chan command, commandQueue),
		upgrader: ws.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.loop = sim.New(engine, sim.Config{Dt: opts.Dt, Rate: opts.TickRate})
	s.loop.AddHook(s)
	s.loop.AddObserver(s)
	return s, nil
}

func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// BeforeTick applies queued client commands on the tick goroutine.
func (s *Server) BeforeTick(sim.Tick) {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd command) {
	a := cmd.action
	err := automation.Apply(s.engine, a)
	s.metrics.RecordCommand(a.Do, err)
	if a.Do == "focus" && err == nil {
		s.metrics.focusRequests.WithLabelValues(a.Body).Inc()
	}
	if err != nil {
		s.log.Debug().Err(err).Str("do", a.Do).Msg("command failed")
	}
	s.reply(cmd.from, ack(a, err))
}

// OnTick broadcasts the post-tick snapshot.
func (s *Server) OnTick(t sim.Tick) {
	s.metrics.ticks.Inc()
	s.metrics.tickDuration.Observe(t.Elapsed.Seconds())
	if s.hub.len() == 0 {
		return
	}

	snap := s.engine.Snapshot()
	data, err := json.Marshal(Message{Type: "frame", Frame: &snap})
	if err != nil {
		s.log.Error().Err(err).Msg("encode frame")
		return
	}
	if dropped := s.hub.broadcast(data); dropped > 0 {
		s.metrics.droppedFrames.Add(float64(dropped))
	}
}

// Run ticks the engine until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.hub.closeAll()
	_, err := s.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe serves Handler on Addr while running the tick loop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", s.opts.Addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return s.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

func (s *Server) newLimiter() *rate.Limiter {
	if s.opts.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := s.opts.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.opts.Rate), burst)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade failed")
		return
	}

	log := s.log.With().Str("remote", r.RemoteAddr).Logger()
	c := newClient(conn, s.newLimiter(), log)
	s.metrics.clients.Set(float64(s.hub.add(c)))
	go c.writeLoop()
	log.Info().Msg("client connected")

	defer func() {
		s.metrics.clients.Set(float64(s.hub.remove(c)))
		log.Info().Msg("client disconnected")
	}()

	conn.SetReadLimit(maxMessage)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.receive(c, data)
	}
}

// receive validates one client message and queues it for the tick loop.
func (s *Server) receive(c *client, data []byte) {
	var a automation.Action
	if err := json.Unmarshal(data, &a); err != nil {
		s.metrics.RecordCommand("invalid", err)
		s.reply(c, Message{Type: "ack", Error: fmt.Sprintf("invalid command: %v", err)})
		return
	}
	if err := a.Validate(); err != nil {
		s.metrics.RecordCommand("invalid", err)
		s.reply(c, ack(a, err))
		return
	}
	if !c.limiter.Allow() {
		s.metrics.commands.WithLabelValues(a.Do, "limited").Inc()
		s.reply(c, ack(a, ErrRateLimited))
		return
	}

	select {
	case s.commands <- command{from: c, action: a}:
	default:
		s.metrics.commands.WithLabelValues(a.Do, "busy").Inc()
		s.reply(c, ack(a, ErrBusy))
	}
}

func (s *Server) reply(c *client, m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if !c.enqueue(data) {
		s.log.Debug().Str("type", m.Type).Msg("reply dropped")
	}
}

func ack(a automation.Action, err error) Message {
	m := Message{Type: "ack", Do: a.Do, Body: a.Body}
	if err != nil {
		m.Error = err.Error()
	}
	return m
}
