package chat

import "testing"

func TestSnapshotLastAssistant(t *testing.T) {
	cases := []struct {
		name     string
		log      []Message
		wantText string
		wantOK   bool
	}{
		{
			name:   "empty log",
			log:    nil,
			wantOK: false,
		},
		{
			name: "only user messages",
			log: []Message{
				{ID: "1", Text: "hi", Author: AuthorUser},
			},
			wantOK: false,
		},
		{
			name: "pending placeholder is skipped",
			log: []Message{
				{ID: "1", Text: "hi", Author: AuthorUser},
				{ID: "2", Author: AuthorAssistant, Pending: true},
			},
			wantOK: false,
		},
		{
			name: "latest resolved wins",
			log: []Message{
				{ID: "1", Text: "hi", Author: AuthorUser},
				{ID: "2", Text: "hello", Author: AuthorAssistant},
				{ID: "3", Text: "more", Author: AuthorUser},
				{ID: "4", Text: "sure", Author: AuthorAssistant},
			},
			wantText: "sure",
			wantOK:   true,
		},
		{
			name: "resolved before a pending placeholder",
			log: []Message{
				{ID: "1", Text: "hello", Author: AuthorAssistant},
				{ID: "2", Text: "more", Author: AuthorUser},
				{ID: "3", Author: AuthorAssistant, Pending: true},
			},
			wantText: "hello",
			wantOK:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := Snapshot{Log: tc.log}.LastAssistant()
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && msg.Text != tc.wantText {
				t.Errorf("text = %q, want %q", msg.Text, tc.wantText)
			}
		})
	}
}

func TestSnapshotPendingCount(t *testing.T) {
	snap := Snapshot{Log: []Message{
		{ID: "1", Author: AuthorUser},
		{ID: "2", Author: AuthorAssistant, Pending: true},
		{ID: "3", Author: AuthorAssistant},
	}}
	if got := snap.PendingCount(); got != 1 {
		t.Errorf("PendingCount() = %d, want 1", got)
	}
	if got := (Snapshot{}).PendingCount(); got != 0 {
		t.Errorf("PendingCount() on empty = %d, want 0", got)
	}
}
