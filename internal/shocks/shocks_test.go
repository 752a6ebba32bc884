package shocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmbientInflationShockDeterministicAndBounded(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)
	for year := 1; year <= 100; year++ {
		va := a.AmbientInflationShock(year)
		vb := b.AmbientInflationShock(year)
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, -0.005)
		assert.LessOrEqual(t, va, 0.005)
	}
}

func TestAmbientInflationShockVariesWithSeed(t *testing.T) {
	a := NewGenerator(1)
	b := NewGenerator(2)
	same := true
	for year := 1; year <= 10; year++ {
		if a.AmbientInflationShock(year) != b.AmbientInflationShock(year) {
			same = false
		}
	}
	assert.False(t, same)
}

func TestStepShockPersistsFromStartYear(t *testing.T) {
	s := StepShock{Year: 10, InflationDeltaPP: 0.01}
	assert.Zero(t, s.Apply(9))
	assert.Equal(t, 0.01, s.Apply(10))
	assert.Equal(t, 0.01, s.Apply(50))
}

func TestBAUPeakYearJitterBounded(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 50; i++ {
		j := g.BAUPeakYearJitter(i)
		assert.GreaterOrEqual(t, j, -1.0)
		assert.LessOrEqual(t, j, 1.0)
	}
}
