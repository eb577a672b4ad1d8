package doctor

import (
	"context"

	"github.com/mediqhq/mediq/internal/mediq"
)

// ClipboardCheck reports whether a clipboard helper tool is available.
// Absence only disables copying answers, so it never fails the check.
type ClipboardCheck struct {
	service *mediq.Service
}

// NewClipboardCheck creates a new clipboard check.
func NewClipboardCheck(service *mediq.Service) *ClipboardCheck {
	return &ClipboardCheck{service: service}
}

func (c *ClipboardCheck) Name() string {
	return "Clipboard"
}

func (c *ClipboardCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	tool := ""
	if c.service != nil {
		tool = c.service.ClipboardTool()
	}

	if tool == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "Helper tool",
			Status: StatusWarn,
			Detail: "none found (install pbcopy, wl-copy, xclip, or xsel); copying answers is disabled",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "Helper tool",
		Status: StatusPass,
		Detail: tool,
	})
	return result
}
