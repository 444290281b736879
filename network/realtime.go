package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/stacker/core"
	"github.com/lixenwraith/stacker/session"
)

var (
	ErrClosed            = errors.New("realtime client closed")
	ErrAlreadySubscribed = errors.New("a change subscription is already active")
)

// Realtime is a change-notification client holding at most one subscription
type Realtime struct {
	cfg     *Config
	session session.Session
	logger  *log.Logger
	dialer  *websocket.Dialer

	refSeq atomic.Uint64

	mu     sync.Mutex
	active *Subscription
	closed bool
}

// NewRealtime creates an idle client; nothing is dialed until Subscribe
func NewRealtime(cfg *Config, sess session.Session, logger *log.Logger) *Realtime {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Realtime{
		cfg:     cfg,
		session: sess,
		logger:  logger,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.ConnectTimeout,
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
		},
	}
}

// Subscribe dials the realtime endpoint and registers filter
// The first connection is made synchronously so configuration errors surface to the caller;
// later drops are redialed in the background until the subscription is closed
func (r *Realtime) Subscribe(ctx context.Context, filter Filter, handler func(Change)) (*Subscription, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.active != nil {
		return nil, ErrAlreadySubscribed
	}
	if r.cfg.RealtimeURL == "" {
		return nil, ErrNoEndpoint
	}

	conn, err := r.connect(ctx, filter)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		owner:   r,
		filter:  filter,
		handler: handler,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	r.active = sub

	core.Go(func() { sub.run(conn) })
	return sub, nil
}

// Active reports whether a subscription is held
func (r *Realtime) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Close releases the active subscription and refuses new ones
func (r *Realtime) Close() error {
	r.mu.Lock()
	r.closed = true
	sub := r.active
	r.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	return nil
}

func (r *Realtime) release(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == sub {
		r.active = nil
	}
}

// connect dials and sends the subscribe frame
func (r *Realtime) connect(ctx context.Context, filter Filter) (*websocket.Conn, error) {
	header := http.Header{}
	r.session.Apply(header)

	conn, _, err := r.dialer.DialContext(ctx, r.cfg.RealtimeURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	ref := strconv.FormatUint(r.refSeq.Add(1), 10)
	if err := r.write(conn, subscribeFrame(ref, filter)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send subscribe: %w", err)
	}
	r.logger.Printf("realtime: subscribed ref=%s table=%s game=%s", ref, filter.Table, filter.Game)
	return conn, nil
}

func (r *Realtime) write(conn *websocket.Conn, fr *Frame) error {
	if r.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteTimeout))
	}
	return conn.WriteJSON(fr)
}

// Subscription is one live change feed
type Subscription struct {
	owner   *Realtime
	filter  Filter
	handler func(Change)

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu   sync.Mutex
	conn *websocket.Conn

	delivered atomic.Int64
	redials   atomic.Int64
}

// Filter returns the subscription's filter
func (s *Subscription) Filter() Filter {
	return s.filter
}

// Delivered returns how many matching changes reached the handler
func (s *Subscription) Delivered() int64 {
	return s.delivered.Load()
}

// Redials returns how many times the connection was re-established
func (s *Subscription) Redials() int64 {
	return s.redials.Load()
}

// Close stops delivery and waits for the reader to exit
// Idempotent; must not be called from inside the handler
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()
	})
	<-s.done
	s.owner.release(s)
}

func (s *Subscription) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// run serves connections until the subscription is closed, redialing after drops
func (s *Subscription) run(conn *websocket.Conn) {
	defer close(s.done)

	for {
		s.serve(conn)

		conn = nil
		for conn == nil {
			select {
			case <-s.stop:
				return
			case <-time.After(s.owner.cfg.ReconnectDelay):
			}

			ctx, cancel := context.WithTimeout(context.Background(), s.owner.cfg.ConnectTimeout)
			c, err := s.owner.connect(ctx, s.filter)
			cancel()
			if err != nil {
				s.owner.logger.Printf("realtime: redial failed: %v", err)
				continue
			}
			s.redials.Add(1)
			conn = c
		}
	}
}

// serve reads frames from one connection until it fails or the subscription closes
func (s *Subscription) serve(conn *websocket.Conn) {
	s.mu.Lock()
	if s.stopped() {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	quit := make(chan struct{})
	var hb sync.WaitGroup
	hb.Add(1)
	core.Go(func() {
		defer hb.Done()
		s.heartbeat(conn, quit)
	})

	defer func() {
		close(quit)
		conn.Close()
		hb.Wait()
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}()

	for {
		var fr Frame
		if err := conn.ReadJSON(&fr); err != nil {
			if !s.stopped() {
				s.owner.logger.Printf("realtime: connection lost: %v", err)
			}
			return
		}

		switch fr.Type {
		case FrameAck:
			s.owner.logger.Printf("realtime: ack ref=%s", fr.Ref)
		case FrameError:
			s.owner.logger.Printf("realtime: server error: %s", fr.Message)
		case FrameChange:
			if !s.filter.Match(&fr) {
				continue
			}
			s.delivered.Add(1)
			if s.handler != nil {
				s.handler(fr.change())
			}
		}
	}
}

func (s *Subscription) heartbeat(conn *websocket.Conn, quit <-chan struct{}) {
	interval := s.owner.cfg.HeartbeatInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			if err := s.owner.write(conn, &Frame{Type: FrameHeartbeat}); err != nil {
				// Reader observes the broken connection and triggers the redial
				conn.Close()
				return
			}
		}
	}
}
