// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

// Question validates a submitted question is non-empty after trimming
// whitespace.
func Question(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("question is required")
	}
	return nil
}
