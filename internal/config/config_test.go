package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[generation]
default_row_count = 50
ai_enabled = true
include = ["users", "orders"]
exclude = ["audit_log"]

[generation.table_row_counts]
users = 1000

[columns."products.color"]
values = ["red", "blue", "green"]
weights = [0.5, 0.3, 0.2]

[columns."orders.tax_code"]
custom = "./scripts/tax_gen.js"
`

func TestLoadConfig(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.DefaultRowCount)
	assert.True(t, cfg.AIEnabled)
	assert.Equal(t, []string{"users", "orders"}, cfg.Include)
	assert.Equal(t, 1000, cfg.TableRowCounts["users"])

	color, ok := cfg.Columns["products.color"]
	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue", "green"}, color.Values)
	assert.Len(t, color.Weights, 3)

	taxCode, ok := cfg.Columns["orders.tax_code"]
	require.True(t, ok)
	assert.Equal(t, "./scripts/tax_gen.js", taxCode.Custom)
}

func TestLoadConfig_WeightsMismatchErrors(t *testing.T) {
	bad := `
[columns."products.color"]
values = ["red", "blue"]
weights = [0.5]
`
	_, err := Load(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.DefaultRowCount)
	assert.NotNil(t, cfg.Columns)
}
