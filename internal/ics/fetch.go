package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	appLog "binclock/internal/log"
)

// MaxBody caps the size of a fetched calendar.
const MaxBody = 1 << 20

// Fetcher loads calendars from http(s) URLs or local paths.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with the given request timeout; zero selects
// 15 seconds.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the body behind src. Anything that is not an http or
// https URL is read from disk.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("source is empty")
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	appLog.Info("ics fetch start", "url", redactURL(src))
	resp, err := f.client.Do(req)
	if err != nil {
		appLog.Error("ics fetch failed", err, "url", redactURL(src))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics fetch %s: %s", redactURL(src), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBody {
		return nil, fmt.Errorf("ics fetch %s: body exceeds %d bytes", redactURL(src), MaxBody)
	}

	appLog.Info("ics fetch success", "url", redactURL(src), "bytes", len(body))
	return body, nil
}

// redactURL keeps only the scheme and host of u for logging; calendar
// URLs often carry a secret token in the path or query.
func redactURL(u string) string {
	p, err := url.Parse(u)
	if err != nil || p.Host == "" {
		return "ics://...(redacted)"
	}
	return p.Scheme + "://" + p.Host + "/...(redacted)"
}
