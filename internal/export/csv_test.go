package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/ankigraph/internal/domain"
)

func TestWriteTagCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []domain.TagRow{
		{Tag: "#B&B::x", ID: 0},
		{Tag: "has,comma", ID: 1},
	}
	require.NoError(t, WriteTagCSV(&buf, rows))
	assert.Equal(t, "tag,tag_id\n#B&B::x,0\n\"has,comma\",1\n", buf.String())
}

func TestWriteTagCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultTagFile)
	require.NoError(t, WriteTagCSVFile(path, []domain.TagRow{{Tag: "a", ID: 0}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tag,tag_id\na,0\n", string(b))

	err = WriteTagCSVFile(filepath.Join(t.TempDir(), "missing", "x.csv"), nil)
	assert.Error(t, err)
}

func TestWriteEdgeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEdgeCSV(&buf, []domain.EdgeView{{A: 0, B: 2, Weight: 3}}))
	assert.Equal(t, "source,target,weight\n0,2,3\n", buf.String())
}
