package eventstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	anticrash "github.com/PancyStudios/ModBotGo/pkg/errors"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
)

const (
	// InitialBackoff is the first reconnect delay
	InitialBackoff = time.Second
	// MaxBackoff caps the reconnect delay
	MaxBackoff = 60 * time.Second
)

// Listener handles one event
type Listener func(Event)

// Supervisor keeps one SSE connection open and restarts it after it drops
type Supervisor struct {
	url        string
	httpClient *http.Client

	mu        sync.RWMutex
	listeners map[string][]Listener

	// OnOpen and OnClose are called around every connection
	OnOpen  func()
	OnClose func(err error)

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewSupervisor creates a Supervisor for url
func NewSupervisor(url string) *Supervisor {
	return &Supervisor{
		url: url,
		// No overall timeout: the stream is meant to stay open
		httpClient:     &http.Client{},
		listeners:      make(map[string][]Listener),
		initialBackoff: InitialBackoff,
		maxBackoff:     MaxBackoff,
	}
}

// On registers fn for events named name
func (s *Supervisor) On(name string, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[name] = append(s.listeners[name], fn)
}

func (s *Supervisor) dispatch(ev Event) {
	s.mu.RLock()
	fns := s.listeners[ev.Name]
	s.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer anticrash.RecoverMiddleware()()
			fn(ev)
		}()
	}
}

// Run connects and reconnects until ctx is cancelled. The backoff doubles
// after every failed or dropped connection and resets once the server
// accepts a connection.
func (s *Supervisor) Run(ctx context.Context) error {
	backoff := s.initialBackoff
	for {
		opened, err := s.connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if opened {
			backoff = s.initialBackoff
		}
		if s.OnClose != nil {
			s.OnClose(err)
		}

		logger.Warn(fmt.Sprintf("Stream %s cerrado, reintentando en %s", s.url, backoff), "SSE")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}
}

// connect runs one connection to completion. It reports whether the server
// answered with a stream.
func (s *Supervisor) connect(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("connecting to %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	if s.OnOpen != nil {
		s.OnOpen()
	}

	err = Parse(resp.Body, s.dispatch)
	if err == nil {
		err = errors.New("stream closed by server")
	}
	return true, err
}
