// Package fetcher supplies raw timetable markup for a registration number.
// The engine treats fetch failures as "no timetable extracted" rather than
// propagating transport errors.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent = "timetable-sync/1.0"
	timeout   = 30 * time.Second
)

var regNoPattern = regexp.MustCompile(`^\d{8}$`)

// Provider supplies the raw portal response for one student.
type Provider interface {
	Fetch(ctx context.Context, regNo string) (string, error)
}

// PortalClient fetches timetable markup from the university portal's report
// viewer endpoint using a captured session cookie.
type PortalClient struct {
	client *http.Client
	url    string
	cookie string
	log    *zap.Logger
}

// NewPortal creates a portal client. A nil logger disables logging.
func NewPortal(portalURL, cookie string, log *zap.Logger) *PortalClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &PortalClient{
		client: &http.Client{Timeout: timeout},
		url:    portalURL,
		cookie: cookie,
		log:    log,
	}
}

// Fetch retrieves the raw response for one registration number.
func (c *PortalClient) Fetch(ctx context.Context, regNo string) (string, error) {
	if !regNoPattern.MatchString(regNo) {
		return "", fmt.Errorf("invalid registration number: %s (must be 8 digits)", regNo)
	}
	if c.url == "" {
		return "", fmt.Errorf("portal URL is not configured")
	}

	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parsing portal URL: %w", err)
	}
	q := u.Query()
	q.Set("RegNo", regNo)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	c.log.Debug("fetching timetable", zap.String("regNo", regNo))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching timetable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

// FileProvider serves one saved response from disk, regardless of the
// registration number asked for. Used for offline single-student imports.
type FileProvider struct {
	Path string
}

// Fetch reads the saved response.
func (f FileProvider) Fetch(_ context.Context, _ string) (string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading capture file: %w", err)
	}
	return string(raw), nil
}
