package fluxguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonNegative(t *testing.T) {
	v, clipped := NonNegative(-5)
	assert.Equal(t, 0.0, v)
	assert.True(t, clipped)

	v, clipped = NonNegative(5)
	assert.Equal(t, 5.0, v)
	assert.False(t, clipped)
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.0, SafeDiv(10, 5))
	assert.InDelta(t, 10/Epsilon, SafeDiv(10, 0), 1e-3)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestCapFlux(t *testing.T) {
	capped, didClip := CapFlux(10, 5)
	assert.Equal(t, 5.0, capped)
	assert.True(t, didClip)

	capped, didClip = CapFlux(3, 5)
	assert.Equal(t, 3.0, capped)
	assert.False(t, didClip)
}
