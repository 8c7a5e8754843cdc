// Package maoyan fetches the Maoyan web-heat ranking page and extracts the
// observed title sequence for one run.
package maoyan

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/net/html"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

const (
	rankingURLKey     = "ranking.url"
	rankingTopKey     = "ranking.top"
	rankingTimeoutKey = "ranking.timeout_seconds"

	// DefaultURL is the public web-heat ranking page.
	DefaultURL     = "https://piaofang.maoyan.com/web-heat"
	defaultReferer = "https://piaofang.maoyan.com/"
	defaultTopN    = 10
	maxTopN        = 100
	defaultTimeout = 15 * time.Second

	fetchAttempts  = 3
	retryBaseDelay = 800 * time.Millisecond

	// The page serves a stub to non-browser agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36"

	maxBodyBytes = 4 << 20
)

type Client struct {
	url        string
	topN       int
	http       *http.Client
	retryDelay time.Duration
	log        zerolog.Logger
}

var _ ports.Extractor = (*Client)(nil)

func NewClient(cfg *viper.Viper, log zerolog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	url := cfg.GetString(rankingURLKey)
	if url == "" {
		url = DefaultURL
	}

	topN := cfg.GetInt(rankingTopKey)
	if topN == 0 {
		topN = defaultTopN
	}
	if topN < 1 || topN > maxTopN {
		return nil, fmt.Errorf("%s must be in 1..%d, got %d", rankingTopKey, maxTopN, topN)
	}

	timeout := defaultTimeout
	if secs := cfg.GetInt(rankingTimeoutKey); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	return &Client{
		url:        url,
		topN:       topN,
		http:       &http.Client{Timeout: timeout},
		retryDelay: retryBaseDelay,
		log:        log,
	}, nil
}

// URL reports the ranking page this client observes, for display in
// notifications and reports.
func (c *Client) URL() string { return c.url }

// FetchObserved retrieves the page and returns the ranked titles, deduped by
// identity and truncated to the configured top-N. Zero extracted titles is a
// fetch failure, never a confirmed-empty ranking: the page always lists
// something, so an empty parse means a structure change or a block.
func (c *Client) FetchObserved(ctx context.Context) ([]domain.RankedItem, error) {
	body, err := c.fetchHTML(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fetchErr("parse ranking page", err)
	}

	entries := parseEntries(doc)
	if len(entries) == 0 {
		return nil, fetchErr("extract titles", errors.New("no titles found: page structure changed or access blocked"))
	}

	seen := make(map[domain.Identity]struct{}, len(entries))
	items := make([]domain.RankedItem, 0, c.topN)
	for _, entry := range entries {
		id := domain.NormalizeIdentity(entry.name)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		platform, onlineDesc := splitInfo(entry.info)
		item := domain.RankedItem{
			Title:      entry.name,
			Rank:       len(items) + 1,
			Platform:   platform,
			OnlineDesc: onlineDesc,
			IsFirstDay: isFirstDay(onlineDesc),
		}
		if err := item.Validate(); err != nil {
			return nil, fetchErr("validate extracted item", err)
		}

		items = append(items, item)
		if len(items) == c.topN {
			break
		}
	}

	return items, nil
}

func (c *Client) fetchHTML(ctx context.Context) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", fetchErr("fetch ranking page", ctx.Err())
			case <-time.After(c.retryDelay * time.Duration(attempt-1)):
			}
		}

		body, err := c.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.log.Debug().Err(err).Int("attempt", attempt).Msg("ranking fetch attempt failed")
	}

	return "", fetchErr(fmt.Sprintf("fetch ranking page after %d attempts", fetchAttempts), lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Referer", defaultReferer)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("get ranking page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ranking page returned %d: %s", resp.StatusCode, string(snippet))
	}

	var reader io.Reader = io.LimitReader(resp.Body, maxBodyBytes)
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return "", fmt.Errorf("open gzip body: %w", err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read ranking page: %w", err)
	}
	return string(body), nil
}

func fetchErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrFetch, err))
}
