package breaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"RiskLens/internal/domain/repository"
)

// Breaker guards calls to one upstream provider.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

type Settings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

func New(s Settings) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	st := gobreaker.Settings{
		Name:     s.Name,
		Interval: 60 * time.Second,
		Timeout:  s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// Missing credentials and bad symbols are caller faults, not an
		// unhealthy upstream.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repository.ErrInvalidSymbol) ||
				errors.Is(err, repository.ErrMissingCredential)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Do runs fn through the breaker. An open breaker yields ErrProvider.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn()
	}
	out, err := b.cb.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w: %v", b.cb.Name(), repository.ErrProvider, err)
		}
		return zero, err
	}
	return out.(T), nil
}

func (b *Breaker) State() string { return b.cb.State().String() }
