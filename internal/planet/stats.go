package planet

import (
	"sync/atomic"
	"time"
)

// Stats is a snapshot of the calls one Client has made.
type Stats struct {
	Calls    int64
	Failures int64
	Latency  time.Duration
}

type stats struct {
	calls    atomic.Int64
	failures atomic.Int64
	latency  atomic.Int64
}

func (s *stats) record(duration time.Duration, err error) {
	s.calls.Add(1)
	s.latency.Add(duration.Nanoseconds())
	if err != nil {
		s.failures.Add(1)
	}
}

// fail counts a call that completed at the transport level but whose
// payload was rejected afterwards.
func (s *stats) fail() {
	s.failures.Add(1)
}

func (s *stats) snapshot() Stats {
	return Stats{
		Calls:    s.calls.Load(),
		Failures: s.failures.Load(),
		Latency:  time.Duration(s.latency.Load()),
	}
}

// AverageLatency returns the mean call duration
func (s Stats) AverageLatency() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Latency / time.Duration(s.Calls)
}

// FailureRate returns the share of failed calls as a percentage
func (s Stats) FailureRate() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Calls) * 100
}
