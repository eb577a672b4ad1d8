package validate

import (
	"testing"
)

func TestQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid question", "how to prevent flu?", false},
		{"valid with leading space", "  itchy eyes", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Question(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Question(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
