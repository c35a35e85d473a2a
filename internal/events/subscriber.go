package events

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// State describes the event stream connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives the raw payload of one named event. Handlers must not
// block; payload parsing failures are the handler's concern and must never
// propagate (the stores drop malformed payloads silently).
type Handler func(payload []byte)

const defaultRetryDelay = 3 * time.Second

// Subscriber owns the single long-lived SSE connection shared by every
// consumer in the process. Consumers register handlers per event name; the
// connection opens when the first handler registers and closes when the
// last one unregisters. Connection health is observable but never gates
// REST traffic.
type Subscriber struct {
	url  string
	http *http.Client

	mu        sync.Mutex
	handlers  map[string]map[int]Handler
	stateFns  map[int]func(State)
	nextToken int
	refs      int
	state     State
	retry     time.Duration
	cancel    context.CancelFunc
}

// NewSubscriber builds a subscriber for the given SSE endpoint URL.
func NewSubscriber(url string) *Subscriber {
	return &Subscriber{
		url: url,
		// No overall timeout: the stream is long-lived by design.
		http:     &http.Client{},
		handlers: make(map[string]map[int]Handler),
		stateFns: make(map[int]func(State)),
		retry:    defaultRetryDelay,
	}
}

// State reports the current connection state.
func (s *Subscriber) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnState registers a connection-state observer and returns its unregister
// function. The observer is called from the stream goroutine.
func (s *Subscriber) OnState(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.nextToken
	s.nextToken++
	s.stateFns[token] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.stateFns, token)
	}
}

// Subscribe registers a handler for one event name and returns its
// unregister function. The first subscription opens the shared connection;
// unregistering the last one closes it.
func (s *Subscriber) Subscribe(event string, h Handler) (cancel func()) {
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	if s.handlers[event] == nil {
		s.handlers[event] = make(map[int]Handler)
	}
	s.handlers[event][token] = h
	s.refs++
	start := s.refs == 1
	if start {
		ctx, cancelConn := context.WithCancel(context.Background())
		s.cancel = cancelConn
		go s.run(ctx)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers[event], token)
			if len(s.handlers[event]) == 0 {
				delete(s.handlers, event)
			}
			s.refs--
			stop := s.refs == 0
			cancelConn := s.cancel
			if stop {
				s.cancel = nil
			}
			s.mu.Unlock()
			if stop && cancelConn != nil {
				cancelConn()
			}
		})
	}
}

// run maintains the connection until ctx is cancelled, reconnecting after
// the stream's advertised retry delay (default 3s). No additional backoff
// is layered on top.
func (s *Subscriber) run(ctx context.Context) {
	for {
		s.setState(StateConnecting)

		err := s.consume(ctx)
		if ctx.Err() != nil {
			s.setState(StateDisconnected)
			return
		}
		if err != nil {
			log.Printf("event stream: %v", err)
		}
		s.setState(StateDisconnected)

		s.mu.Lock()
		delay := s.retry
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// consume opens the stream and dispatches events until it ends.
func (s *Subscriber) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream endpoint returned status %d", resp.StatusCode)
	}

	s.setState(StateConnected)

	reader := NewReader(resp.Body)
	for {
		event, err := reader.ReadEvent()
		if hint := reader.RetryHint(); hint > 0 {
			s.mu.Lock()
			s.retry = hint
			s.mu.Unlock()
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		s.dispatch(event)
	}
}

// dispatch fans one event out to every handler registered for its name.
// Events with no registered handler are ignored.
func (s *Subscriber) dispatch(event Event) {
	s.mu.Lock()
	registered := s.handlers[event.Name]
	fns := make([]Handler, 0, len(registered))
	for _, h := range registered {
		fns = append(fns, h)
	}
	s.mu.Unlock()

	for _, h := range fns {
		h(event.Data)
	}
}

func (s *Subscriber) setState(state State) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	observers := make([]func(State), 0, len(s.stateFns))
	for _, fn := range s.stateFns {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
