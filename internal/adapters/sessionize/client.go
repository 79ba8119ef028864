package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"churchevents/internal/domain"
)

// DefaultBaseURL is the public Sessionize API root.
const DefaultBaseURL = "https://sessionize.com/api/v2"

type httpFeed struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFeed returns a ProgramFeed that reads the Sessionize "view/All" endpoint.
// An empty baseURL means DefaultBaseURL.
func NewHTTPFeed(client *http.Client, baseURL string) domain.ProgramFeed {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpFeed{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *httpFeed) Fetch(ctx context.Context, feedID string) (domain.ProgramFeedResponse, error) {
	if strings.TrimSpace(feedID) == "" {
		return domain.ProgramFeedResponse{}, fmt.Errorf("%w: sessionize id is required", domain.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("%s/%s/view/All", f.baseURL, url.PathEscape(feedID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ProgramFeedResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ProgramFeedResponse{}, fmt.Errorf("fetch from sessionize: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ProgramFeedResponse{}, fmt.Errorf("sessionize event %q: %w", feedID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return domain.ProgramFeedResponse{}, fmt.Errorf("sessionize api returned status: %d", resp.StatusCode)
	}

	var data domain.ProgramFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.ProgramFeedResponse{}, fmt.Errorf("decode sessionize response: %w", err)
	}
	return data, nil
}
