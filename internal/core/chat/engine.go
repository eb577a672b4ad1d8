package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediqhq/mediq/pkg/randid"
)

// DefaultErrorReply is the assistant text substituted when a responder fails.
const DefaultErrorReply = "Sorry, something went wrong while preparing a response. Please try again."

// Responder produces an assistant reply for a submitted message. Respond may
// block; the engine always calls it from its own goroutine with the context
// given to Submit.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, text string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Logger receives diagnostic output (dropped submissions, responder
	// failures). Defaults to a disabled logger.
	Logger zerolog.Logger
	// Clock overrides the timestamp source. Defaults to time.Now.
	Clock func() time.Time
	// ErrorReply overrides the assistant text substituted on responder
	// failure. Defaults to DefaultErrorReply.
	ErrorReply string
}

// Engine owns the conversation log and drives one in-flight responder call at
// a time. Submissions made while a response is pending are dropped, never
// queued. All methods are safe for concurrent use.
type Engine struct {
	responder  Responder
	log        zerolog.Logger
	now        func() time.Time
	errorReply string
	session    string

	mu        sync.Mutex
	messages  []Message
	awaiting  bool
	observers []observer
	nextObs   int
	queue     []delivery

	// notifyMu serializes deliveries so observers see snapshots in
	// mutation order.
	notifyMu sync.Mutex
}

type observer struct {
	id int
	fn func(Snapshot)
}

// delivery is a queued snapshot notification for a set of observers.
type delivery struct {
	snap Snapshot
	to   []observer
}

// New creates an Engine around the given responder.
func New(r Responder, opts Options) *Engine {
	e := &Engine{
		responder:  r,
		now:        opts.Clock,
		errorReply: opts.ErrorReply,
		session:    randid.Generate(6),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.errorReply == "" {
		e.errorReply = DefaultErrorReply
	}
	e.log = opts.Logger.With().Str("session", e.session).Logger()
	return e
}

// SessionID returns the short identifier used to correlate this session in
// logs.
func (e *Engine) SessionID() string {
	return e.session
}

// Submit records a user message and schedules the assistant response. Blank
// or whitespace-only input is dropped, as are submissions made while a
// response is already pending. Drops are silent: no state change, no error.
//
// The context bounds the responder call for this turn; cancellation surfaces
// as an ordinary responder failure, never as a stuck session.
func (e *Engine) Submit(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		e.log.Debug().Msg("dropping blank submission")
		return
	}

	e.mu.Lock()
	if e.awaiting {
		e.mu.Unlock()
		e.log.Debug().Msg("dropping submission while awaiting response")
		return
	}

	now := e.now()
	user := Message{ID: uuid.NewString(), Text: trimmed, Author: AuthorUser, CreatedAt: now}
	placeholder := Message{ID: uuid.NewString(), Author: AuthorAssistant, CreatedAt: now, Pending: true}
	e.messages = append(e.messages, user, placeholder)
	e.awaiting = true
	e.enqueueLocked(e.observers)
	e.mu.Unlock()

	e.log.Debug().Str("message_id", user.ID).Msg("user message accepted")

	e.drain()
	go e.resolve(ctx, placeholder.ID, trimmed)
}

// Subscribe registers fn to receive the current snapshot immediately and a
// new snapshot after every mutation. The returned cancel func stops further
// notifications and is safe to call more than once.
//
// Callbacks run on whichever goroutine performed the mutation and should
// return promptly.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	obs := observer{id: e.nextObs, fn: fn}
	e.nextObs++
	e.observers = append(e.observers, obs)
	e.enqueueLocked([]observer{obs})
	e.mu.Unlock()

	e.drain()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, o := range e.observers {
			if o.id == obs.id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				break
			}
		}
	}
}

// State returns the current snapshot. It never blocks on an in-flight
// responder call.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// resolve waits for the responder and substitutes the pending placeholder
// with the resolved assistant message as one atomic transition.
func (e *Engine) resolve(ctx context.Context, placeholderID, prompt string) {
	reply, err := e.responder.Respond(ctx, prompt)
	if err != nil {
		e.log.Error().Err(err).Msg("responder failed")
		reply = e.errorReply
	} else if strings.TrimSpace(reply) == "" {
		e.log.Error().Msg("responder returned an empty reply")
		reply = e.errorReply
	}

	e.mu.Lock()
	for i, msg := range e.messages {
		if msg.ID == placeholderID {
			e.messages = append(e.messages[:i], e.messages[i+1:]...)
			break
		}
	}
	e.messages = append(e.messages, Message{
		ID:        uuid.NewString(),
		Text:      reply,
		Author:    AuthorAssistant,
		CreatedAt: e.now(),
	})
	e.awaiting = false
	e.enqueueLocked(e.observers)
	e.mu.Unlock()

	e.drain()
}

// snapshotLocked copies the current state. Callers must hold mu.
func (e *Engine) snapshotLocked() Snapshot {
	log := make([]Message, len(e.messages))
	copy(log, e.messages)
	return Snapshot{Log: log, AwaitingResponse: e.awaiting}
}

// enqueueLocked appends a notification for the given observers. Callers must
// hold mu; queuing under the state lock is what keeps deliveries in mutation
// order.
func (e *Engine) enqueueLocked(to []observer) {
	if len(to) == 0 {
		return
	}
	recipients := make([]observer, len(to))
	copy(recipients, to)
	e.queue = append(e.queue, delivery{snap: e.snapshotLocked(), to: recipients})
}

// drain delivers queued notifications. Only one goroutine drains at a time;
// the others hand their queued work to the active drainer and return.
func (e *Engine) drain() {
	for {
		if !e.notifyMu.TryLock() {
			return
		}
		for {
			e.mu.Lock()
			if len(e.queue) == 0 {
				e.mu.Unlock()
				break
			}
			d := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()

			for _, o := range d.to {
				o.fn(d.snap)
			}
		}
		e.notifyMu.Unlock()

		// A delivery may have been queued between the empty check and the
		// unlock. Re-check so it is not stranded.
		e.mu.Lock()
		empty := len(e.queue) == 0
		e.mu.Unlock()
		if empty {
			return
		}
	}
}
