package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediqhq/mediq/internal/core/config"
)

func datasetTestConfig(t *testing.T, kind string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Responder.Kind = kind
	return &cfg
}

func TestDatasetCheck_MissingFile(t *testing.T) {
	cfg := datasetTestConfig(t, config.ResponderTriage)

	result := NewDatasetCheck(cfg).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "dataset build")
}

func TestDatasetCheck_MissingFileNotNeeded(t *testing.T) {
	cfg := datasetTestConfig(t, config.ResponderScripted)

	result := NewDatasetCheck(cfg).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
}

func TestDatasetCheck_Valid(t *testing.T) {
	cfg := datasetTestConfig(t, config.ResponderTriage)

	data := `[{"disease":"Common Cold","symptoms":["cough","runny nose"],"precautions":["rest"]}]`
	require.NoError(t, os.WriteFile(cfg.DatasetPath(), []byte(data), 0o644))

	result := NewDatasetCheck(cfg).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "1 disease(s)")
}

func TestDatasetCheck_InvalidEntries(t *testing.T) {
	cfg := datasetTestConfig(t, config.ResponderTriage)

	data := `[{"disease":"","symptoms":["cough"]}]`
	require.NoError(t, os.WriteFile(cfg.DatasetPath(), []byte(data), 0o644))

	result := NewDatasetCheck(cfg).Run(context.Background())

	require.NotEmpty(t, result.Items)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestDatasetCheck_StrayTempFiles(t *testing.T) {
	cfg := datasetTestConfig(t, config.ResponderTriage)

	data := `[{"disease":"Common Cold","symptoms":["cough"],"precautions":["rest"]}]`
	require.NoError(t, os.WriteFile(cfg.DatasetPath(), []byte(data), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "medical_dataset.json.tmp"), []byte("{"), 0o644))

	result := NewDatasetCheck(cfg).Run(context.Background())

	require.Len(t, result.Items, 2)
	stray := result.Items[1]
	assert.Equal(t, StatusWarn, stray.Status)
	assert.True(t, stray.Fixable)
	assert.Equal(t, "medical_dataset.json.tmp", stray.Label)
}
