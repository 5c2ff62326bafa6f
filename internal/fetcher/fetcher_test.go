package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/dump.txt"))
	assert.True(t, IsURL(" http://x"))
	assert.True(t, IsURL("www.example.com"))
	assert.False(t, IsURL("/tmp/dump.txt"))
	assert.False(t, IsURL("dump.txt"))
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	rc, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)

	_, err = Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpenURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dump.txt" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "ankigraph/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	rc, err := Open(context.Background(), srv.URL+"/dump.txt")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "remote", string(b))

	_, err = Open(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func setMaxRemoteSize(t *testing.T, n int64) {
	t.Helper()
	prev := MaxRemoteSize
	MaxRemoteSize = n
	t.Cleanup(func() { MaxRemoteSize = prev })
}

func TestOpenURLTooLarge(t *testing.T) {
	setMaxRemoteSize(t, 16)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := strings.Repeat("x", 16)
		switch r.URL.Path {
		case "/declared":
			w.Write([]byte(body + "yy"))
		case "/streamed":
			// flushing before the body is complete forces a chunked response
			for i := 0; i < 18; i++ {
				w.Write([]byte("x"))
				w.(http.Flusher).Flush()
			}
		case "/exact":
			w.Write([]byte(body))
		}
	}))
	defer srv.Close()

	_, err := Open(context.Background(), srv.URL+"/declared")
	var tooLarge *TooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, int64(16), tooLarge.Limit)

	rc, err := Open(context.Background(), srv.URL+"/streamed")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	rc.Close()
	require.True(t, errors.As(err, &tooLarge))
	assert.EqualError(t, err, "remote dump exceeds 16 bytes")
	assert.Len(t, b, 16)

	rc, err = Open(context.Background(), srv.URL+"/exact")
	require.NoError(t, err)
	b, err = io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Len(t, b, 16)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/decks/dump.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "decks", "dump.txt"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
