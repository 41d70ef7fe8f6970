package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", FormatUSD(1234567.891))
	assert.Equal(t, "$0.00", FormatUSD(0))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "8.00%", FormatPercentage(0.08, 2))
	assert.Equal(t, "12.5%", FormatPercentage(0.125, 1))
}

func TestPremiumColor(t *testing.T) {
	assert.Equal(t, GreenColor, PremiumColor(101, 100))
	assert.Equal(t, GreenColor, PremiumColor(100, 100))
	assert.Equal(t, RedColor, PremiumColor(99, 100))
}
