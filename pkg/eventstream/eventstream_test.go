package eventstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "named event",
			input: "event: pepito\ndata: {\"event\":\"in\"}\n\n",
			want:  []Event{{Name: "pepito", Data: `{"event":"in"}`}},
		},
		{
			name:  "default name and multi-line data",
			input: "data: a\ndata: b\n\n",
			want:  []Event{{Name: DefaultEvent, Data: "a\nb"}},
		},
		{
			name:  "comments and id",
			input: ": keepalive\nid: 7\nevent: heartbeat\ndata:x\n\n",
			want:  []Event{{Name: "heartbeat", Data: "x", ID: "7"}},
		},
		{
			name:  "blank lines without data emit nothing",
			input: "\n\nevent: lonely\n\n",
			want:  nil,
		},
		{
			name:  "unterminated trailing event is dropped",
			input: "event: a\ndata: 1\n\nevent: b\ndata: 2\n",
			want:  []Event{{Name: "a", Data: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Event
			if err := Parse(strings.NewReader(tt.input), func(ev Event) { got = append(got, ev) }); err != nil {
				t.Fatalf("Parse() returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSupervisorReconnects(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		n := connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: pepito\ndata: %d\n\n", n)
		fmt.Fprint(w, "event: heartbeat\ndata: ping\n\n")
	}))
	defer srv.Close()

	s := NewSupervisor(srv.URL)
	s.initialBackoff = time.Millisecond
	s.maxBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		pepitos []string
		opens   atomic.Int32
		beats   atomic.Int32
	)
	s.OnOpen = func() { opens.Add(1) }
	s.On("pepito", func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		pepitos = append(pepitos, ev.Data)
		if len(pepitos) == 3 {
			cancel()
		}
	})
	s.On("heartbeat", func(Event) { beats.Add(1) })

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not reconnect in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(pepitos[:3], []string{"1", "2", "3"}) {
		t.Errorf("pepito events = %v, want [1 2 3]", pepitos)
	}
	if opens.Load() < 3 {
		t.Errorf("OnOpen called %d times, want at least 3", opens.Load())
	}
	if beats.Load() < 2 {
		t.Errorf("heartbeat events = %d, want at least 2", beats.Load())
	}
}

func TestSupervisorResetsBackoffOnOpen(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
	}))
	defer srv.Close()

	s := NewSupervisor(srv.URL)
	s.initialBackoff = 20 * time.Millisecond
	s.maxBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Without a reset the tenth connection would come after about ten seconds
	deadline := time.After(3 * time.Second)
	for connections.Load() < 10 {
		select {
		case <-deadline:
			t.Fatalf("only %d connections in 3s, backoff kept growing", connections.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want %v", err, context.Canceled)
	}
}

func TestSupervisorSurvivesBadStatusAndPanics(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if connections.Add(1) == 1 {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "data: hello\n\n")
	}))
	defer srv.Close()

	s := NewSupervisor(srv.URL)
	s.initialBackoff = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var closeErrs atomic.Int32
	s.OnClose = func(err error) {
		if err != nil {
			closeErrs.Add(1)
		}
	}
	s.On(DefaultEvent, func(Event) { panic("listener bug") })
	s.On(DefaultEvent, func(Event) { cancel() })

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want %v", err, context.Canceled)
	}
	if closeErrs.Load() < 1 {
		t.Error("OnClose was not called for the failed connection")
	}
}
