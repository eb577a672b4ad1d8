package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/mediqhq/mediq/internal/core/config"
	"github.com/mediqhq/mediq/internal/core/dataset"
	"github.com/mediqhq/mediq/internal/store/jsonfile"
)

// DatasetCheck verifies the disease knowledge base file.
type DatasetCheck struct {
	config *config.Config
}

// NewDatasetCheck creates a new dataset check.
func NewDatasetCheck(cfg *config.Config) *DatasetCheck {
	return &DatasetCheck{config: cfg}
}

func (c *DatasetCheck) Name() string {
	return "Dataset"
}

func (c *DatasetCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	path := c.config.DatasetPath()
	needed := c.config.Responder.Kind == config.ResponderTriage

	ds, err := jsonfile.New(path).Load(ctx)
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		status := StatusWarn
		detail := fmt.Sprintf("%s not found (only the triage responder needs it)", path)
		if needed {
			status = StatusFail
			detail = fmt.Sprintf("%s not found; run 'mediq dataset build' to create it", path)
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "Dataset file",
			Status: status,
			Detail: detail,
		})

	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "Dataset file",
			Status: StatusFail,
			Detail: err.Error(),
		})

	default:
		result.Items = append(result.Items, c.validateItems(ds)...)
	}

	result.Items = append(result.Items, c.strayTempItems()...)
	return result
}

func (c *DatasetCheck) validateItems(ds dataset.Dataset) []CheckItem {
	err := ds.Validate()
	if err == nil {
		return []CheckItem{{
			Label:  "Dataset valid",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d disease(s)", len(ds)),
		}}
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []CheckItem{{Label: "Dataset valid", Status: StatusFail, Detail: err.Error()}}
	}

	items := make([]CheckItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label := fe.Field
		if label == "" {
			label = "dataset"
		}
		items = append(items, CheckItem{
			Label:  label,
			Status: StatusFail,
			Detail: fe.Err.Error(),
		})
	}
	return items
}

// strayTempItems reports *.json.tmp leftovers from interrupted saves.
func (c *DatasetCheck) strayTempItems() []CheckItem {
	stray, err := jsonfile.StrayTempFiles(c.config.DataDir)
	if err != nil {
		return []CheckItem{{
			Label:  "Temp file scan",
			Status: StatusWarn,
			Detail: err.Error(),
		}}
	}

	items := make([]CheckItem, 0, len(stray))
	for _, file := range stray {
		items = append(items, CheckItem{
			Label:   file,
			Status:  StatusWarn,
			Detail:  "leftover temp file from an interrupted save; safe to delete",
			Fixable: true,
		})
	}
	return items
}
