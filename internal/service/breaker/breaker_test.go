package breaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/repository"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Settings{Name: "prices", ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, fmt.Errorf("upstream: %w", repository.ErrProvider)
	}

	_, err := Do(b, fail)
	require.Error(t, err)
	_, err = Do(b, fail)
	require.Error(t, err)
	assert.Equal(t, "open", b.State())

	_, err = Do(b, fail)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrProvider))
	assert.Equal(t, 2, calls, "open breaker must not reach upstream")
}

func TestBreaker_InvalidSymbolDoesNotTrip(t *testing.T) {
	b := New(Settings{Name: "prices", ConsecutiveFailures: 1, OpenTimeout: time.Minute})
	for i := 0; i < 3; i++ {
		_, err := Do(b, func() (string, error) { return "", repository.ErrInvalidSymbol })
		assert.ErrorIs(t, err, repository.ErrInvalidSymbol)
	}
	assert.Equal(t, "closed", b.State())

	v, err := Do(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
