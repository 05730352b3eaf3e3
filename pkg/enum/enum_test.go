package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToEnum(t *testing.T) {
	type outcome string

	won := New(outcome("won"), "WON")
	lost := New(outcome("lost"), "LOST")

	v, err := ToEnum[outcome]("WON")
	require.NoError(t, err)
	require.Equal(t, won, v)

	v, err = ToEnum[outcome]("LOST")
	require.NoError(t, err)
	require.Equal(t, lost, v)

	// Names are case sensitive.
	_, err = ToEnum[outcome]("won")
	require.Error(t, err)

	require.Equal(t, "WON", ToString(won))
	require.Equal(t, "", ToString(outcome("draw")))
}

func TestToEnum_IntValue(t *testing.T) {
	type level int

	low := New(level(1), "low")

	v, err := ToEnum[level]("low")
	require.NoError(t, err)
	require.Equal(t, low, v)
	require.Equal(t, "low", ToString(low))
	require.Equal(t, "", ToString(level(2)))
}

func TestToEnum_UnregisteredType(t *testing.T) {
	type unknown string

	_, err := ToEnum[unknown]("anything")
	require.Error(t, err)
	require.Equal(t, "", ToString(unknown("anything")))
}
