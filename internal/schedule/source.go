package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/routine"
)

var (
	// ErrNoSource means no routine URL is configured for the cohort.
	ErrNoSource = errors.New("no routine source configured")
	// ErrTooLarge means the routine body exceeded the size limit.
	ErrTooLarge = errors.New("routine source too large")
)

// StatusError reports a non-200 response from the routine URL.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// Fetcher returns the raw CSV text behind a routine URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source fetches routine CSV over HTTP or from disk. Share links to Google
// Sheets are turned into their CSV export form first.
type Source struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewSource returns a Source with the default timeout and size limit.
func NewSource() *Source {
	return &Source{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				Proxy:       http.ProxyFromEnvironment,
			},
		},
		timeout:  constants.FetchTimeout,
		maxBytes: constants.MaxRoutineBytes,
	}
}

// WithClient swaps the HTTP client. Used by tests.
func (s *Source) WithClient(c *http.Client) *Source {
	s.client = c
	return s
}

// WithTimeout changes the per-fetch timeout.
func (s *Source) WithTimeout(d time.Duration) *Source {
	s.timeout = d
	return s
}

// Fetch reads the routine. http(s) URLs are fetched without credentials;
// file:// URLs and plain paths are read from disk.
func (s *Source) Fetch(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNoSource
	}

	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return s.fetchHTTP(ctx, routine.ExportURL(url))
	case strings.HasPrefix(url, "file://"):
		return s.readFile(strings.TrimPrefix(url, "file://"))
	default:
		return s.readFile(url)
	}
}

func (s *Source) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return s.readAll(resp.Body)
}

func (s *Source) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routine file: %w", err)
	}
	defer f.Close()
	return s.readAll(f)
}

func (s *Source) readAll(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read routine: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
