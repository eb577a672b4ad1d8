package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediqhq/mediq/internal/core/chat"
	"github.com/mediqhq/mediq/internal/mediq"
)

// snapshotMsg carries a fresh engine snapshot into the update loop.
type snapshotMsg chat.Snapshot

// engineResetMsg is sent when a replacement engine is ready after a clear.
type engineResetMsg struct {
	engine      *chat.Engine
	feed        *snapshotFeed
	unsubscribe func()
	err         error
}

// snapshotFeed bridges engine notifications into the Bubble Tea loop. The
// engine notifies observers from its own goroutine; the feed keeps only the
// newest snapshot so slow frames coalesce instead of queueing behind stale
// intermediate states.
type snapshotFeed struct {
	mu     sync.Mutex
	latest chat.Snapshot
	dirty  bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func newSnapshotFeed() *snapshotFeed {
	return &snapshotFeed{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// push records the newest snapshot. Safe to call from any goroutine; wired
// directly as the engine's Subscribe callback.
func (f *snapshotFeed) push(snap chat.Snapshot) {
	f.mu.Lock()
	f.latest = snap
	f.dirty = true
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// await returns a command that blocks until the next unseen snapshot and
// delivers it as a snapshotMsg. The model re-issues await after every
// delivery, so only one waiter exists at a time.
func (f *snapshotFeed) await() tea.Cmd {
	return func() tea.Msg {
		for {
			f.mu.Lock()
			if f.dirty {
				f.dirty = false
				snap := f.latest
				f.mu.Unlock()
				return snapshotMsg(snap)
			}
			f.mu.Unlock()

			select {
			case <-f.wake:
			case <-f.done:
				return nil
			}
		}
	}
}

// stop releases any blocked waiter. Used when the feed is replaced after a
// conversation reset.
func (f *snapshotFeed) stop() {
	f.once.Do(func() { close(f.done) })
}

// resetEngine returns a command that builds a fresh engine with a subscribed
// feed. Building may touch the filesystem (the triage backend reloads its
// dataset), so it runs off the update loop.
func resetEngine(service *mediq.Service) tea.Cmd {
	return func() tea.Msg {
		engine, err := service.NewEngine(context.Background())
		if err != nil {
			return engineResetMsg{err: err}
		}

		feed := newSnapshotFeed()
		unsubscribe := engine.Subscribe(feed.push)

		return engineResetMsg{engine: engine, feed: feed, unsubscribe: unsubscribe}
	}
}
