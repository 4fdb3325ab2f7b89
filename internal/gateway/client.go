package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/httpx"
)

// Config carries the knobs for the HTTP client. Zero values fall back
// to usable defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
	// Transport is the assembled httpx middleware chain; nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
	// OnAuthFailure fires once per call that came back 401/403, before
	// the error is returned. The session layer hooks cache clearing
	// here.
	OnAuthFailure func()
}

type Client struct {
	httpClient    *http.Client
	baseURL       string
	userAgent     string
	limiter       *rate.Limiter
	maxRetries    int
	logger        *slog.Logger
	onAuthFailure func()
}

var _ Gateway = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "reprint-ui"
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:     cfg.UserAgent,
		limiter:       rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RPS)), 1),
		maxRetries:    cfg.MaxRetries,
		logger:        cfg.Logger,
		onAuthFailure: cfg.OnAuthFailure,
	}
}

func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	env, err := c.get(ctx, "/api/v1/search", query)
	if err != nil {
		return SearchResult{}, err
	}

	var books []entity.Book
	if err := decodeData(env, &books); err != nil {
		return SearchResult{}, err
	}
	meta := c.decodeMeta(env)
	return SearchResult{Books: books, Total: meta.Total, Limit: meta.Limit, Offset: meta.Offset}, nil
}

func (c *Client) GetBook(ctx context.Context, workKey, editionID string) (entity.BookDetail, error) {
	// workKey is usually "/works/OL..." or just "OL..."
	key := strings.TrimPrefix(workKey, "/works/")
	query := url.Values{}
	if editionID != "" {
		query.Set("edition", editionID)
	}

	env, err := c.get(ctx, "/api/v1/books/"+url.PathEscape(key), query)
	if err != nil {
		return entity.BookDetail{}, err
	}

	var detail entity.BookDetail
	if err := decodeData(env, &detail); err != nil {
		return entity.BookDetail{}, err
	}
	return detail, nil
}

func (c *Client) GetAuthor(ctx context.Context, authorKey string) (entity.Author, error) {
	key := strings.TrimPrefix(authorKey, "/authors/")

	env, err := c.get(ctx, "/api/v1/authors/"+url.PathEscape(key), nil)
	if err != nil {
		return entity.Author{}, err
	}

	var author entity.Author
	if err := decodeData(env, &author); err != nil {
		return entity.Author{}, err
	}
	return author, nil
}

func (c *Client) GetTrending(ctx context.Context, period string) ([]entity.TrendingBook, error) {
	query := url.Values{}
	query.Set("period", period)

	env, err := c.get(ctx, "/api/v1/trending", query)
	if err != nil {
		return nil, err
	}

	var books []entity.TrendingBook
	if err := decodeData(env, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) ListLibrary(ctx context.Context, q LibraryQuery) ([]entity.LibraryItem, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if q.Order != "" {
		query.Set("order", q.Order)
	}

	env, err := c.get(ctx, "/api/v1/library", query)
	if err != nil {
		return nil, err
	}

	var items []entity.LibraryItem
	if err := decodeData(env, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateLibraryItem(ctx context.Context, workKey, status string) (entity.LibraryItem, error) {
	body := map[string]any{"work_key": workKey, "status": status}

	var item entity.LibraryItem
	if err := c.send(ctx, http.MethodPost, "/api/v1/library", body, &item); err != nil {
		return entity.LibraryItem{}, err
	}
	return item, nil
}

func (c *Client) UpdateLibraryItem(ctx context.Context, itemID, status string) (entity.LibraryItem, error) {
	body := map[string]any{"status": status}

	var item entity.LibraryItem
	if err := c.send(ctx, http.MethodPatch, "/api/v1/library/"+url.PathEscape(itemID), body, &item); err != nil {
		return entity.LibraryItem{}, err
	}
	return item, nil
}

func (c *Client) DeleteLibraryItem(ctx context.Context, itemID string) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/library/"+url.PathEscape(itemID), nil, nil)
}

func (c *Client) ListOwnReviews(ctx context.Context) ([]entity.Review, error) {
	env, err := c.get(ctx, "/api/v1/reviews/me", nil)
	if err != nil {
		return nil, err
	}

	var reviews []entity.Review
	if err := decodeData(env, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, in ReviewDraft) (entity.Review, error) {
	body := map[string]any{
		"work_key": in.WorkKey,
		"rating":   in.Rating,
		"content":  in.Content,
		"spoiler":  in.Spoiler,
	}

	var review entity.Review
	if err := c.send(ctx, http.MethodPost, "/api/v1/reviews", body, &review); err != nil {
		return entity.Review{}, err
	}
	return review, nil
}

func (c *Client) UpdateReview(ctx context.Context, reviewID string, in ReviewDraft) (entity.Review, error) {
	body := map[string]any{
		"rating":  in.Rating,
		"content": in.Content,
		"spoiler": in.Spoiler,
	}

	var review entity.Review
	if err := c.send(ctx, http.MethodPatch, "/api/v1/reviews/"+url.PathEscape(reviewID), body, &review); err != nil {
		return entity.Review{}, err
	}
	return review, nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/reviews/"+url.PathEscape(reviewID), nil, nil)
}

func (c *Client) ListModerationQueue(ctx context.Context, q ModerationQuery) ([]entity.Review, int, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	env, err := c.get(ctx, "/api/v1/admin/reviews", query)
	if err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	if err := decodeData(env, &reviews); err != nil {
		return nil, 0, err
	}
	return reviews, c.decodeMeta(env).Total, nil
}

func (c *Client) ApproveReview(ctx context.Context, reviewID string) (entity.Review, error) {
	var review entity.Review
	if err := c.send(ctx, http.MethodPost, "/api/v1/admin/reviews/"+url.PathEscape(reviewID)+"/approve", nil, &review); err != nil {
		return entity.Review{}, err
	}
	return review, nil
}

func (c *Client) RejectReview(ctx context.Context, reviewID string) (entity.Review, error) {
	var review entity.Review
	if err := c.send(ctx, http.MethodPost, "/api/v1/admin/reviews/"+url.PathEscape(reviewID)+"/reject", nil, &review); err != nil {
		return entity.Review{}, err
	}
	return review, nil
}

func (c *Client) GetModerationStats(ctx context.Context) (entity.ModerationStats, error) {
	env, err := c.get(ctx, "/api/v1/admin/reviews/stats", nil)
	if err != nil {
		return entity.ModerationStats{}, err
	}

	var stats entity.ModerationStats
	if err := decodeData(env, &stats); err != nil {
		return entity.ModerationStats{}, err
	}
	return stats, nil
}

// get issues an idempotent request, retrying transport failures and
// 429/5xx with exponential backoff. Non-retryable statuses map straight
// onto the error taxonomy.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*httpx.Envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, netError("request canceled", ctx.Err())
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, netError("rate limiter", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, netError("build request", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = netError("round trip", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = netError("read body", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &Error{Kind: KindNetwork, Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode)}
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, c.fail(resp.StatusCode, body)
		}

		return parseEnvelope(body)
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// send issues a mutating request. Mutations are never retried; the
// caller decides what a repeat means.
func (c *Client) send(ctx context.Context, method, path string, payload, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return netError("rate limiter", err)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return netError("encode body", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return netError("build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return netError("round trip", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return netError("read body", err)
	}

	if resp.StatusCode >= 400 {
		return c.fail(resp.StatusCode, raw)
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return err
	}
	return decodeData(env, target)
}

// fail maps an error response onto the taxonomy, keeping the server's
// code, message and field details verbatim.
func (c *Client) fail(statusCode int, body []byte) error {
	kind := kindForStatus(statusCode)
	code := ""
	message := http.StatusText(statusCode)
	var details []httpx.ErrorDetail

	var env httpx.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		code = env.Error.Code
		message = env.Error.Message
		details = env.Error.Details
	}

	if kind == KindAuth && c.onAuthFailure != nil {
		c.onAuthFailure()
	}

	return &Error{Kind: kind, Code: code, Message: message, Details: details}
}

func parseEnvelope(body []byte) (*httpx.Envelope, error) {
	var env httpx.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, netError("decode envelope", err)
	}
	if !env.Success {
		// 2xx with success=false should not happen; treat it as a
		// malformed answer rather than inventing a taxonomy kind.
		return nil, netError("envelope reports failure on success status", nil)
	}
	return &env, nil
}

func decodeData(env *httpx.Envelope, target any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return netError("decode data", err)
	}
	return nil
}

func (c *Client) decodeMeta(env *httpx.Envelope) httpx.PageMeta {
	var meta httpx.PageMeta
	if len(env.Meta) == 0 {
		return meta
	}
	if err := json.Unmarshal(env.Meta, &meta); err != nil {
		c.logger.Debug("malformed page meta", "meta", string(env.Meta), "error", err)
		return httpx.PageMeta{}
	}
	return meta
}
