package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"brokerdash/server/config"
)

// Client talks to the CRM REST webhook. Every list endpoint is a GET whose
// parameters travel in the query string and whose body is an envelope of the
// shape {result, next?, total?}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	fields     config.FieldKeys
	wonStages  []string
	logger     *logrus.Logger
}

func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.WebhookBaseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		fields:     cfg.Fields,
		wonStages:  cfg.DealStagesWon,
		logger:     logger,
	}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Next   *int            `json:"next"`
	Total  int             `json:"total"`
}

func (c *Client) get(ctx context.Context, method string, query url.Values, purpose string) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", purpose, err)
	}

	endpoint := c.baseURL + "/" + method
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", purpose, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", purpose, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s: unexpected status %d: %s", purpose, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", purpose, err)
	}
	return &env, nil
}

// pager walks a list endpoint page by page. Each request sets start to the
// cursor the previous response returned in next; the sequence is finite and
// not restartable once drained.
type pager struct {
	client  *Client
	method  string
	query   url.Values
	purpose string
	start   int
	done    bool
}

func (c *Client) pages(method string, query url.Values, purpose string, start int) *pager {
	return &pager{client: c, method: method, query: query, purpose: purpose, start: start}
}

// next fetches one page into out (a pointer to a slice) and reports whether a
// page was fetched. The zero-length final page still counts as fetched.
func (p *pager) next(ctx context.Context, out any) (bool, error) {
	if p.done {
		return false, nil
	}

	query := cloneValues(p.query)
	query.Set("start", strconv.Itoa(p.start))

	env, err := p.client.get(ctx, p.method, query, p.purpose)
	if err != nil {
		p.done = true
		return false, err
	}

	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, out); err != nil {
			p.done = true
			return false, fmt.Errorf("%s: failed to decode result page: %w", p.purpose, err)
		}
	}

	if env.Next != nil {
		p.start = *env.Next
	} else {
		p.done = true
	}
	return true, nil
}

// fetchAll drains every page of a list endpoint and concatenates the results
// in page order. Any failed page aborts the whole operation; pages already
// fetched are discarded rather than returned partially.
func fetchAll[T any](ctx context.Context, c *Client, method string, query url.Values, purpose string) ([]T, error) {
	var all []T
	p := c.pages(method, query, purpose, 0)
	for {
		var page []T
		ok, err := p.next(ctx, &page)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, page...)
	}
	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"records": len(all),
	}).Debug("Fetched all pages")
	return all, nil
}

// fetchPage retrieves a single page starting at the given offset along with
// the endpoint's total record count, for page-numbered views.
func fetchPage[T any](ctx context.Context, c *Client, method string, query url.Values, purpose string, start int) ([]T, int, error) {
	query = cloneValues(query)
	query.Set("start", strconv.Itoa(start))

	env, err := c.get(ctx, method, query, purpose)
	if err != nil {
		return nil, 0, err
	}

	var items []T
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &items); err != nil {
			return nil, 0, fmt.Errorf("%s: failed to decode result page: %w", purpose, err)
		}
	}
	return items, env.Total, nil
}

func cloneValues(src url.Values) url.Values {
	dst := make(url.Values, len(src))
	for key, vals := range src {
		dst[key] = append([]string(nil), vals...)
	}
	return dst
}
