package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(InsufficientFunds, "Need %d points", 40)
	require.Equal(t, "Need 40 points", err.Error())
	require.True(t, Is(err, InsufficientFunds))
	require.False(t, Is(err, OutOfStock))
	require.False(t, Is(errors.New("Need 40 points"), InsufficientFunds))

	wrapped := fmt.Errorf("wrapped: %w", err)
	require.True(t, Is(wrapped, InsufficientFunds))
}
