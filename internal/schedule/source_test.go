package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_FetchHTTP(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Date,09:00\n"))
	}))
	defer srv.Close()

	data, err := NewSource().WithClient(srv.Client()).Fetch(context.Background(), srv.URL+"/routine.csv")
	require.NoError(t, err)
	assert.Equal(t, "Date,09:00\n", string(data))
	assert.Empty(t, gotCookie)
}

func TestSource_FetchHTTP_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewSource().WithClient(srv.Client()).Fetch(context.Background(), srv.URL)
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusForbidden, status.Code)
}

func TestSource_FetchHTTP_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewSource().WithClient(srv.Client()).WithTimeout(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSource_FetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routine.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))

	src := NewSource()
	data, err := src.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	data, err = src.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	_, err = src.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSource_FetchEmptyURL(t *testing.T) {
	_, err := NewSource().Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestSource_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0o600))

	src := NewSource()
	src.maxBytes = 16
	_, err := src.Fetch(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}
