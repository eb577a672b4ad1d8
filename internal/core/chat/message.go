// Package chat defines the conversation domain types and the session engine.
package chat

import "time"

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is a single entry in the conversation log. Messages are treated as
// immutable once appended; a pending placeholder is never edited in place,
// it is removed and replaced by its resolved counterpart.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
}

// Snapshot is an immutable copy of the session state handed to observers.
type Snapshot struct {
	Log              []Message `json:"log"`
	AwaitingResponse bool      `json:"awaiting_response"`
}

// LastAssistant returns the most recent resolved assistant message.
func (s Snapshot) LastAssistant() (Message, bool) {
	for i := len(s.Log) - 1; i >= 0; i-- {
		msg := s.Log[i]
		if msg.Author == AuthorAssistant && !msg.Pending {
			return msg, true
		}
	}
	return Message{}, false
}

// PendingCount returns the number of pending placeholder entries in the log.
func (s Snapshot) PendingCount() int {
	count := 0
	for _, msg := range s.Log {
		if msg.Pending {
			count++
		}
	}
	return count
}
