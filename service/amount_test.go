package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		name  string
		major float64
		want  int64
	}{
		{"whole rupees", 499.00, 49900},
		{"two decimals", 4.99, 499},
		{"one decimal", 0.5, 50},
		{"zero", 0, 0},
		{"single paisa", 0.01, 1},
		{"large", 10000000, 1000000000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MinorUnits(tc.major)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinorUnitsExactAcrossRange(t *testing.T) {
	// Every 2-decimal amount must convert without floating-point drift.
	for paise := int64(0); paise < 100000; paise += 7 {
		major := float64(paise) / 100
		got, err := MinorUnits(major)
		require.NoError(t, err)
		require.Equal(t, paise, got, "major=%v", major)
	}
}

func TestMinorUnitsRejectsBadInput(t *testing.T) {
	_, err := MinorUnits(-1)
	assert.Error(t, err)

	_, err = MinorUnits(1.001)
	assert.Error(t, err)
}
