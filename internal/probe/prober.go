// Package probe attempts TCP connections and reports a typed outcome
// instead of parsing connectivity-tool output.
package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/model"
	"github.com/hsalem/probekit/internal/platform/runid"
)

// Prober dials TCP targets with a bounded timeout.
type Prober struct {
	dialer *net.Dialer
	log    zerolog.Logger
}

// New returns a Prober whose connection attempts give up after timeout.
func New(timeout time.Duration, log zerolog.Logger) *Prober {
	return &Prober{
		dialer: &net.Dialer{Timeout: timeout},
		log:    log,
	}
}

// Probe attempts one TCP connection to host:port. The connection is closed
// immediately on success; the probe only cares whether it can be made.
// Every failure is classified: timeout, refused, DNS, or other unreachable.
func (p *Prober) Probe(ctx context.Context, host string, port int) model.ProbeResult {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	result := model.ProbeResult{Host: host, Port: port}

	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, "tcp", addr)
	result.Elapsed = time.Since(start)

	if err == nil {
		_ = conn.Close()
		result.Outcome = model.OutcomeConnected
	} else {
		result.Err = err
		result.Outcome = classifyDialError(err)
	}

	event := p.log.Info()
	if result.Err != nil {
		event = p.log.Warn().Err(result.Err)
	}
	event.
		Str("run_id", runid.FromContext(ctx)).
		Str("host", host).
		Int("port", port).
		Str("outcome", string(result.Outcome)).
		Dur("elapsed", result.Elapsed).
		Msg("probe complete")

	return result
}

func classifyDialError(err error) model.ProbeOutcome {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return model.OutcomeDNSError
	case errors.Is(err, syscall.ECONNREFUSED):
		return model.OutcomeRefused
	case isTimeout(err):
		return model.OutcomeTimedOut
	default:
		return model.OutcomeUnreachable
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
