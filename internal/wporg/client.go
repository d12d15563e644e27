// Package wporg is a client for the WordPress.org plugin, theme and core APIs
// and for downloading their packages.
package wporg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

// ErrNotFound is returned when the directory does not know the requested slug.
var ErrNotFound = errors.New("not found in directory")

// Directory is the subset of the WordPress.org API used by the site.
type Directory interface {
	PluginInformation(ctx context.Context, slug string) (*PluginInfo, error)
	QueryPlugins(ctx context.Context, search string, perPage int) (*PluginQuery, error)
	ThemeInformation(ctx context.Context, slug string) (*ThemeInfo, error)
	QueryThemes(ctx context.Context, search string, perPage int) (*ThemeQuery, error)
	CoreVersionCheck(ctx context.Context, version, locale string) ([]CoreOffer, error)
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

// Config holds client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client implements Directory over HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// New creates a directory client.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger.With("system", "wporg"),
	}
}

func (c *Client) PluginInformation(ctx context.Context, slug string) (*PluginInfo, error) {
	q := url.Values{}
	q.Set("action", "plugin_information")
	q.Set("request[slug]", slug)
	q.Set("request[fields][sections]", "0")

	var info PluginInfo
	if err := c.getJSON(ctx, "/plugins/info/1.2/", q, &info); err != nil {
		return nil, err
	}
	if info.Error != "" || info.Slug == "" {
		return nil, ErrNotFound
	}
	return &info, nil
}

func (c *Client) QueryPlugins(ctx context.Context, search string, perPage int) (*PluginQuery, error) {
	q := url.Values{}
	q.Set("action", "query_plugins")
	q.Set("request[search]", search)
	q.Set("request[per_page]", strconv.Itoa(perPage))
	q.Set("request[fields][short_description]", "1")

	var res PluginQuery
	if err := c.getJSON(ctx, "/plugins/info/1.2/", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ThemeInformation(ctx context.Context, slug string) (*ThemeInfo, error) {
	q := url.Values{}
	q.Set("action", "theme_information")
	q.Set("request[slug]", slug)

	var info ThemeInfo
	if err := c.getJSON(ctx, "/themes/info/1.2/", q, &info); err != nil {
		return nil, err
	}
	if info.Error != "" || info.Slug == "" {
		return nil, ErrNotFound
	}
	return &info, nil
}

func (c *Client) QueryThemes(ctx context.Context, search string, perPage int) (*ThemeQuery, error) {
	q := url.Values{}
	q.Set("action", "query_themes")
	q.Set("request[search]", search)
	q.Set("request[per_page]", strconv.Itoa(perPage))
	q.Set("request[fields][description]", "1")

	var res ThemeQuery
	if err := c.getJSON(ctx, "/themes/info/1.2/", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CoreVersionCheck(ctx context.Context, version, locale string) ([]CoreOffer, error) {
	q := url.Values{}
	q.Set("version", version)
	q.Set("locale", locale)

	var res struct {
		Offers []CoreOffer `json:"offers"`
	}
	if err := c.getJSON(ctx, "/core/version-check/1.7/", q, &res); err != nil {
		return nil, err
	}
	return res.Offers, nil
}

// Download fetches rawURL. Bodies larger than limit bytes are rejected when limit is positive.
func (c *Client) Download(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, handlers.ErrHTTPRequest.Withf("A valid URL was not provided.")
	}

	resp, err := c.do(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, handlers.ErrHTTPRequest.Withf("Download failed: %s", resp.Status)
	}

	reader := io.Reader(resp.Body)
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, handlers.ErrHTTPRequest.Wrap(err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, handlers.ErrPayloadTooBig
	}

	c.logger.Info("package downloaded", "url", u.Redacted(), "bytes", len(data))
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	resp, err := c.do(ctx, c.baseURL+path+"?"+q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return handlers.ErrHTTPRequest.Withf("Directory request failed: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return handlers.ErrHTTPRequest.Wrap(fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

func (c *Client) do(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, handlers.ErrHTTPRequest.Wrap(err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, handlers.ErrHTTPRequest.Wrap(err)
	}
	return resp, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
