package envvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64(t *testing.T) {
	t.Setenv("LOANMC_TEST_SEED", "12345")
	v, ok := Uint64("LOANMC_TEST_SEED")
	assert.True(t, ok)
	assert.Equal(t, uint64(12345), v)

	t.Setenv("LOANMC_TEST_SEED", "-1")
	v, ok = Uint64("LOANMC_TEST_SEED", 7)
	assert.False(t, ok)
	assert.Equal(t, uint64(7), v)

	v, ok = Uint64("LOANMC_TEST_UNSET", 9)
	assert.False(t, ok)
	assert.Equal(t, uint64(9), v)
}

func TestSetInt(t *testing.T) {
	workers := 2
	assert.False(t, SetInt("LOANMC_TEST_WORKERS", &workers))
	assert.Equal(t, 2, workers)

	t.Setenv("LOANMC_TEST_WORKERS", "8")
	assert.True(t, SetInt("LOANMC_TEST_WORKERS", &workers))
	assert.Equal(t, 8, workers)
}
