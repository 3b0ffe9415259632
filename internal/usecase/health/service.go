// Package health aggregates liveness probes of the storage backends.
package health

import (
	"context"
	"sync"
	"time"
)

// Status is the overall verdict reported on /health.
type Status string

// Healthy means every probe passed, Degraded that some did, Unhealthy that none did.
const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded"
	Unhealthy Status = "error"
)

// CheckResult is the verdict for one component.
type CheckResult string

// Per-component results.
const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

const defaultCheckTimeout = 2 * time.Second

// Component is a named dependency to ping.
type Component struct {
	Name   string
	Pinger Pinger
}

// Report is the result of one Check.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service pings the configured components.
type Service struct {
	components []Component
	timeout    time.Duration
}

// New builds a Service. Components without a Pinger are dropped, so the
// in-memory backend yields an always-healthy report.
func New(components ...Component) *Service {
	s := &Service{timeout: defaultCheckTimeout}
	for _, c := range components {
		if c.Pinger != nil {
			s.components = append(s.components, c)
		}
	}
	return s
}

// Check pings all components concurrently, sharing one deadline.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := make([]CheckResult, len(s.components))
	var wg sync.WaitGroup
	for i, c := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = CheckOK
			if c.Pinger.Ping(ctx) != nil {
				results[i] = CheckError
			}
		}()
	}
	wg.Wait()

	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(results))}
	failed := 0
	for i, c := range s.components {
		r.Checks[c.Name] = results[i]
		if results[i] == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
	case failed == len(results):
		r.Status = Unhealthy
	default:
		r.Status = Degraded
	}
	return r
}
