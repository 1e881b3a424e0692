package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"RiskLens/internal/domain/repository"
	"RiskLens/internal/service/breaker"
	"RiskLens/internal/service/ratelimit"
	"RiskLens/pkg/config"
	xhttp "RiskLens/pkg/http"
	"RiskLens/pkg/logger"
)

// DefaultBaseURL is the public query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

type Config struct {
	Name        string // breaker and log label
	APIKey      string
	BaseURL     string
	MinInterval time.Duration
	Timeout     time.Duration
}

// Client talks to the query API under one credential. Every call waits on
// the client's own pacer.
type Client struct {
	name    string
	apiKey  string
	baseURL string
	http    *xhttp.Client
	pacer   *ratelimit.Pacer
	breaker *breaker.Breaker
	log     *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(h *xhttp.Client) Option { return func(c *Client) { c.http = h } }

func WithBreaker(b *breaker.Breaker) Option { return func(c *Client) { c.breaker = b } }

func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = l } }

func WithPacer(p *ratelimit.Pacer) Option { return func(c *Client) { c.pacer = p } }

func newClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Name == "" {
		cfg.Name = "alphavantage"
	}
	c := &Client{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		pacer:   ratelimit.NewPacer(cfg.MinInterval),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
	return c
}

// envelope carries the fields the API uses for in-band errors on HTTP 200.
type envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// query performs one paced, breaker-guarded GET and decodes into dest.
func (c *Client) query(ctx context.Context, function string, params map[string]string, dest interface{}) error {
	if config.IsPlaceholderKey(c.apiKey) {
		return fmt.Errorf("%s %s: %w", c.name, function, repository.ErrMissingCredential)
	}
	if err := c.pacer.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w: %v", c.name, function, repository.ErrProvider, err)
	}

	q := map[string][]string{
		"function": {function},
		"apikey":   {c.apiKey},
	}
	for k, v := range params {
		q[k] = []string{v}
	}

	start := time.Now()
	_, err := breaker.Do(c.breaker, func() (struct{}, error) {
		var raw []byte
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			URL:         c.baseURL,
			QueryParams: q,
		}, &raw)
		if err != nil {
			return struct{}{}, classifyTransport(err)
		}
		if err := checkEnvelope(raw); err != nil {
			return struct{}{}, err
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return struct{}{}, fmt.Errorf("%w: %v", repository.ErrMalformedPayload, err)
		}
		return struct{}{}, nil
	})
	c.log.Debug("provider call",
		logger.String("provider", c.name),
		logger.String("function", function),
		logger.String("outcome", repository.FailureKind(err)),
		logger.Duration("duration_ms", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, function, err)
	}
	return nil
}

func classifyTransport(err error) error {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: status %d", repository.ErrRateLimited, se.Code)
		}
		return fmt.Errorf("%w: status %d", repository.ErrProvider, se.Code)
	}
	return fmt.Errorf("%w: %v", repository.ErrProvider, err)
}

func checkEnvelope(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrMalformedPayload, err)
	}
	if env.ErrorMessage != "" {
		return fmt.Errorf("%w: %s", repository.ErrInvalidSymbol, env.ErrorMessage)
	}
	for _, msg := range []string{env.Note, env.Information} {
		if msg == "" {
			continue
		}
		if isRateLimitNotice(msg) {
			return fmt.Errorf("%w: %s", repository.ErrRateLimited, msg)
		}
		return fmt.Errorf("%w: %s", repository.ErrProvider, msg)
	}
	return nil
}

func isRateLimitNotice(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "rate limit") ||
		strings.Contains(m, "call frequency") ||
		strings.Contains(m, "requests per")
}
