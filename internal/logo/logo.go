// Package logo resolves a vendor name to a company logo URL.
package logo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the Clearbit logo endpoint
const DefaultBaseURL = "https://logo.clearbit.com"

// Finder looks up vendor logos by guessing the vendor's domain
type Finder struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

// NewFinder creates a Finder. A nil client uses a default client without timeout.
func NewFinder(baseURL string, client *http.Client, logger *slog.Logger) (*Finder, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing logo base url %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Finder{
		baseURL: u,
		client:  client,
		logger:  logger,
	}, nil
}

// Domain guesses a vendor's domain: lowercase, spaces removed, ".com" appended
func Domain(vendor string) string {
	return strings.ReplaceAll(strings.ToLower(vendor), " ", "") + ".com"
}

// Find returns the resolved logo URL for the vendor, or "" if the lookup fails
// for any reason
func (f *Finder) Find(ctx context.Context, vendor string) string {
	addr := f.baseURL.JoinPath(Domain(vendor))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		f.logger.WarnContext(ctx, "Error building logo request", "vendor", vendor, "error", err)
		return ""
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WarnContext(ctx, "Error fetching logo", "vendor", vendor, "error", err)
		return ""
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		f.logger.DebugContext(ctx, "Logo not found", "vendor", vendor, "status", resp.StatusCode)
		return ""
	}

	// Request holds the final URL after redirects
	logoURL := resp.Request.URL.String()
	f.logger.DebugContext(ctx, "Constructed logo URL", "vendor", vendor, "url", logoURL)
	return logoURL
}
