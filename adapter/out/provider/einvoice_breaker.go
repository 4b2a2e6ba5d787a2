// Package provider implements the Google API outbound adapters (Gmail,
// Drive, Sheets), each guarded by a circuit breaker.
package provider

import (
	"time"

	"github.com/sony/gobreaker"

	"einvoice_server/pkg/logger"
)

// newBreaker builds the circuit breaker shared by the Google API
// adapters. Trips on 5 consecutive failures or a 60% failure ratio over
// at least 10 requests.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	})
}
