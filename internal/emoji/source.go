package emoji

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

// supportedDatasets is the range of dataset releases whose shape the parser knows.
const supportedDatasets = ">= 14.0.0, < 17.0.0"

// maxBody caps a dataset download.
const maxBody = 32 << 20

// Default mirror templates. {version} is replaced with the dataset version.
var (
	DefaultDatasetURLs = []string{
		"https://cdn.jsdelivr.net/npm/emojibase-data@{version}/en/data.json",
		"https://unpkg.com/emojibase-data@{version}/en/data.json",
	}
	DefaultShortcodeURLs = []string{
		"https://cdn.jsdelivr.net/npm/emojibase-data@{version}/en/shortcodes/discord.json",
		"https://unpkg.com/emojibase-data@{version}/en/shortcodes/discord.json",
	}
)

// Sources lists mirrors, in preference order, for both datasets.
type Sources struct {
	Version    *semver.Version
	Dataset    []string
	Shortcodes []string
}

// NewSources validates the version and expands the URL templates.
func NewSources(version string, dataset, shortcodes []string) (Sources, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return Sources{}, err
	}
	if len(dataset) == 0 {
		dataset = DefaultDatasetURLs
	}
	if len(shortcodes) == 0 {
		shortcodes = DefaultShortcodeURLs
	}
	return Sources{Version: v, Dataset: expand(dataset, v), Shortcodes: expand(shortcodes, v)}, nil
}

// ParseVersion checks that version is a dataset release the parser supports.
func ParseVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset version %q", version)
	}
	c, err := semver.NewConstraint(supportedDatasets)
	if err != nil {
		return nil, errors.Wrap(err, "dataset constraint")
	}
	if !c.Check(v) {
		return nil, errors.Newf("dataset version %s outside supported range %s", v, supportedDatasets)
	}
	return v, nil
}

func expand(templates []string, v *semver.Version) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = strings.ReplaceAll(t, "{version}", v.String())
	}
	return out
}

// Fetcher downloads one URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP with a per-request timeout and a shared limiter so
// repeated retries cannot hammer the mirrors.
type HTTPFetcher struct {
	Client  *http.Client
	Limiter *rate.Limiter
	Timeout time.Duration
}

// NewHTTPFetcher allows a burst of four requests (two datasets, two mirrors) and then
// one request every two seconds.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  http.DefaultClient,
		Limiter: rate.NewLimiter(rate.Every(2*time.Second), 4),
		Timeout: timeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", url)
	}
	return body, nil
}

// firstSuccess tries each mirror in order and returns the first one that both
// downloads and parses.
func firstSuccess[T any](ctx context.Context, f Fetcher, urls []string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		body, err := f.Fetch(ctx, u)
		if err == nil {
			var v T
			if v, err = parse(body); err == nil {
				return v, nil
			}
		}
		lastErr = errors.Wrapf(err, "mirror %s", u)
	}
	if lastErr == nil {
		lastErr = errors.New("no mirrors configured")
	}
	return zero, errors.Wrap(lastErr, "all sources failed")
}
