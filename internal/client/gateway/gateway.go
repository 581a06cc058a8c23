// Package gateway is the single HTTP client every backend call of stationctl
// goes through. It attaches credentials, decodes JSON and turns every failure
// into one user-facing message that is also pushed to the notifier.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/client/notify"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindNetwork: no response was received.
	KindNetwork Kind = iota + 1
	// KindServer: a non-2xx response.
	KindServer
	// KindDecode: a 2xx response whose body did not match the expected shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned for every failed call. Message is what was shown to the user.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.StatusCode
	}
	return 0
}

type Gateway struct {
	baseURL  string
	client   *http.Client
	notifier notify.Notifier
	log      zerolog.Logger
	validate *validator.Validate

	tokens      TokenSource
	middlewares []Middleware
}

type Option func(*Gateway)

func WithTokenSource(src TokenSource) Option { return func(g *Gateway) { g.tokens = src } }

func WithNotifier(n notify.Notifier) Option { return func(g *Gateway) { g.notifier = n } }

func WithLogger(log zerolog.Logger) Option { return func(g *Gateway) { g.log = log } }

// WithHTTPClient replaces the underlying client. Its transport is wrapped, not replaced.
func WithHTTPClient(c *http.Client) Option { return func(g *Gateway) { g.client = c } }

// WithMiddleware appends mws after the built-in chain.
func WithMiddleware(mws ...Middleware) Option {
	return func(g *Gateway) { g.middlewares = append(g.middlewares, mws...) }
}

// New builds a gateway rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, timeout time.Duration, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		log:      zerolog.Nop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(g)
	}

	base := g.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	chain := append([]Middleware{BearerAuth(g.tokens), RequestID(), Logging(g.log)}, g.middlewares...)

	c := *g.client
	c.Transport = Chain(base, chain...)
	g.client = &c
	return g
}

func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, in, out any) error {
	return g.Do(ctx, http.MethodPost, path, in, out)
}

func (g *Gateway) Put(ctx context.Context, path string, in, out any) error {
	return g.Do(ctx, http.MethodPut, path, in, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). out may be a *string to receive a plain text body. Any failure is
// notified exactly once and returned as *Error.
func (g *Gateway) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return g.fail(&Error{Kind: KindNetwork, Message: GenericMessage, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw := readBody(resp.Body)
		return g.fail(&Error{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    Message(resp.StatusCode, StatusText(resp), raw),
			Body:       raw,
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.fail(&Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: GenericMessage, Err: err})
	}
	if err := g.decode(raw, out); err != nil {
		return g.fail(&Error{Kind: KindDecode, StatusCode: resp.StatusCode, Message: GenericMessage, Body: raw, Err: err})
	}
	return nil
}

func (g *Gateway) decode(raw []byte, out any) error {
	if s, ok := out.(*string); ok {
		var quoted string
		if err := json.Unmarshal(raw, &quoted); err == nil {
			*s = quoted
			return nil
		}
		*s = string(raw)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return g.check(out)
}

// check runs validate tags on a struct result or on every element of a slice result.
func (g *Gateway) check(out any) error {
	v := reflect.Indirect(reflect.ValueOf(out))
	switch v.Kind() {
	case reflect.Struct:
		if err := g.validate.Struct(v.Addr().Interface()); err != nil {
			return fmt.Errorf("validating response: %w", err)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			el := reflect.Indirect(v.Index(i))
			if el.Kind() != reflect.Struct {
				return nil
			}
			if err := g.validate.Struct(el.Addr().Interface()); err != nil {
				return fmt.Errorf("validating response item %d: %w", i, err)
			}
		}
	}
	return nil
}

func (g *Gateway) fail(e *Error) error {
	ev := g.log.Warn().Str("kind", e.Kind.String()).Str("message", e.Message)
	if e.StatusCode != 0 {
		ev = ev.Int("status", e.StatusCode)
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Msg("api call failed")

	notify.Error(g.notifier, e.Message)
	return e
}
