package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/graph"
)

func TestExclusions(t *testing.T) {
	tests := []struct {
		name      string
		firstAid  bool
		showOther bool
		exclude   []string
		want      []string
	}{
		{"default hides FirstAid", false, false, nil, []string{"FirstAid", "other"}},
		{"firstaid included", true, false, nil, []string{"other"}},
		{"extra category", true, false, []string{"Sketchy"}, []string{"Sketchy", "other"}},
		{"other shown", false, true, nil, []string{"FirstAid"}},
		{"everything shown", true, true, nil, nil},
		{"other shown but excluded", true, true, []string{"other"}, []string{"other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.FirstAid = tt.firstAid
			cfg.ShowOther = tt.showOther
			cfg.Exclude = tt.exclude
			set, err := cfg.Exclusions()
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Names())
			if !tt.showOther {
				assert.True(t, set.Has(domain.CategoryOther))
			}
		})
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ankigraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: /data/collection.txt
firstaid: true
weighting: records
render:
  width: 800
  labels: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/collection.txt", cfg.Source)
	assert.True(t, cfg.FirstAid)
	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 1600, cfg.Render.Height, "unset fields keep defaults")
	assert.True(t, cfg.Render.Labels)

	w, err := cfg.GraphWeighting()
	require.NoError(t, err)
	assert.Equal(t, graph.WeightRecords, w)

	t.Setenv("ANKIGRAPH_SOURCE", "https://example.com/dump.txt")
	t.Setenv("ANKIGRAPH_FIRSTAID", "false")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dump.txt", cfg.Source)
	assert.False(t, cfg.FirstAid)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("source: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("ANKIGRAPH_FIRSTAID", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Exclude = []string{"Boards"}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Weighting = "pairs"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Source = " "
	assert.Error(t, cfg.Validate())
}
