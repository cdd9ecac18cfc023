package datasource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"weather-dashboard/logger"
	"weather-dashboard/metrics"
)

// ErrDataNotAvailable is returned when the provider answers with a non-2xx status
var ErrDataNotAvailable = errors.New("data not available")

// secretParams are query parameters whose values are masked in returned errors
var secretParams = []string{"appid", "key", "apikey", "api_key"}

// maxErrorBody bounds how much of an error response ends up in the error message
const maxErrorBody = 512

// Fetcher issues GET requests and decodes JSON responses
type Fetcher struct {
	httpClient *http.Client
	metrics    *metrics.Collector
}

// NewFetcher creates a fetcher; a zero timeout leaves requests bounded only by their context
func NewFetcher(timeout time.Duration, collector *metrics.Collector) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    collector,
	}
}

// NewFetcherWithClient creates a fetcher around an existing client
func NewFetcherWithClient(client *http.Client, collector *metrics.Collector) *Fetcher {
	return &Fetcher{httpClient: client, metrics: collector}
}

// FetchJSON GETs rawURL and decodes the body into out. endpoint labels the
// call in metrics. Transport errors keep their type with credentials masked
// in the URL; a failed status is reported as ErrDataNotAvailable.
func (f *Fetcher) FetchJSON(ctx context.Context, endpoint, rawURL string, out interface{}) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		f.metrics.RecordFetch(endpoint, outcome, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		outcome = "request_error"
		return errors.Wrap(scrubURLError(err), "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		return scrubURLError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status_error"
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Wrapf(ErrDataNotAvailable, "%s returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "decode_error"
		return errors.Wrapf(err, "failed to parse %s response", endpoint)
	}
	return nil
}

// scrubURLError masks secret query values in the URL carried by a *url.Error
func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i] + "?REDACTED"
		}
		return raw
	}
	query := u.Query()
	for _, name := range secretParams {
		if value := query.Get(name); value != "" {
			query.Set(name, logger.MaskAPIKey(value))
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}
