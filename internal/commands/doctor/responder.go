package doctor

import (
	"context"

	"github.com/mediqhq/mediq/internal/core/config"
	"github.com/mediqhq/mediq/internal/mediq"
)

// ResponderCheck verifies the configured response backend can start: rules
// compile, the dataset loads, the API key is present.
type ResponderCheck struct {
	config  *config.Config
	service *mediq.Service
}

// NewResponderCheck creates a new responder check.
func NewResponderCheck(cfg *config.Config, service *mediq.Service) *ResponderCheck {
	return &ResponderCheck{config: cfg, service: service}
}

func (c *ResponderCheck) Name() string {
	return "Responder"
}

func (c *ResponderCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.service == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Service",
			Status: StatusFail,
			Detail: "service not initialized",
		})
		return result
	}

	if _, err := c.service.BuildResponder(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.config.Responder.Kind,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.config.Responder.Kind,
		Status: StatusPass,
		Detail: "backend ready",
	})
	return result
}
