package model

import "time"

// ReachResult holds the outcome of a single HTTP reachability check.
type ReachResult struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Reachable  bool          `json:"reachable"`
	Elapsed    time.Duration `json:"elapsed"`
}

// ProbeOutcome classifies a TCP connection attempt.
type ProbeOutcome string

const (
	OutcomeConnected   ProbeOutcome = "connected"
	OutcomeTimedOut    ProbeOutcome = "timed_out"
	OutcomeRefused     ProbeOutcome = "refused"
	OutcomeDNSError    ProbeOutcome = "dns_error"
	OutcomeUnreachable ProbeOutcome = "unreachable"
)

// ProbeResult holds the outcome of a single TCP port probe.
type ProbeResult struct {
	Host    string        `json:"host"`
	Port    int           `json:"port"`
	Outcome ProbeOutcome  `json:"outcome"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`
}

// Open reports whether the probe established a connection.
func (r ProbeResult) Open() bool {
	return r.Outcome == OutcomeConnected
}

// PatchSummary describes one completed patch run.
type PatchSummary struct {
	Input   string `json:"input"`
	Backup  string `json:"backup"`
	Output  string `json:"output"`
	Lines   int    `json:"lines"`
	Changed int    `json:"changed"`
}
