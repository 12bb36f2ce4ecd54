package reachability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/model"
	"github.com/hsalem/probekit/internal/platform/errs"
	"github.com/hsalem/probekit/internal/platform/runid"
)

const (
	maxRedirects = 5
	userAgent    = "probekit/1.0"

	// drainLimit bounds how much of the discarded body is read so that
	// connections can be reused without buffering huge responses.
	drainLimit = 1 << 20
)

var errTooManyRedirects = errors.New("too many redirects")

// Checker performs single-shot HTTP reachability checks.
type Checker struct {
	client *http.Client
	log    zerolog.Logger
}

// New returns a Checker whose requests are bounded by the given timeout.
// Redirects are followed up to a fixed limit; the final response decides
// reachability.
func New(timeout time.Duration, log zerolog.Logger) *Checker {
	return newChecker(timeout, &http.Transport{
		MaxConnsPerHost:     1,
		MaxIdleConnsPerHost: 1,
		IdleConnTimeout:     30 * time.Second,
	}, log)
}

func newChecker(timeout time.Duration, transport http.RoundTripper, log zerolog.Logger) *Checker {
	return &Checker{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
		log: log,
	}
}

// Check issues one GET to targetURL, discards the body, and classifies the
// status code. A code in [200,300) is reachable. Transport failures return
// an *errs.AppError whose Kind distinguishes timeout, refused, and DNS
// errors; no status code is fabricated for them.
func (c *Checker) Check(ctx context.Context, targetURL string) (*model.ReachResult, error) {
	log := c.log.With().Str("run_id", runid.FromContext(ctx)).Str("url", targetURL).Logger()

	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		appErr := &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: fmt.Sprintf("invalid URL %q: expected http(s)://host", targetURL),
			Cause:   err,
		}
		log.Error().Stringer("kind", appErr.Kind).Err(appErr).Msg("check failed")
		return nil, appErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "could not build request",
			Cause:   err,
		}
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		appErr := classifyTransportError(err)
		log.Error().Stringer("kind", appErr.Kind).Err(err).Msg("check failed")
		return nil, appErr
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	result := &model.ReachResult{
		URL:        targetURL,
		StatusCode: resp.StatusCode,
		Reachable:  resp.StatusCode >= 200 && resp.StatusCode < 300,
		Elapsed:    time.Since(start),
	}

	log.Info().
		Int("status_code", result.StatusCode).
		Bool("reachable", result.Reachable).
		Dur("elapsed", result.Elapsed).
		Msg("check complete")

	return result, nil
}

func classifyTransportError(err error) *errs.AppError {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return &errs.AppError{
			Kind:    errs.DNSFailure,
			Message: "the target hostname could not be resolved",
			Cause:   err,
		}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &errs.AppError{
			Kind:    errs.Refused,
			Message: "the target refused the connection",
			Cause:   err,
		}
	case isTimeout(err):
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "the target took too long to respond",
			Cause:   err,
		}
	default:
		return &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "the target could not be reached",
			Cause:   err,
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
