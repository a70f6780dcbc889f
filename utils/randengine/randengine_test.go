package randengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscreteDistributionRespectsZeroWeights(t *testing.T) {
	e := New(42)
	for i := 0; i < 100; i++ {
		idx := e.DiscreteDistribution([]float64{0, 1, 0})
		assert.Equal(t, int32(1), idx)
	}
}

func TestGaussZeroStddevIsDeterministic(t *testing.T) {
	e := New(1)
	assert.Equal(t, 3.0, e.Gauss(3.0, 0))
}

func TestPTrueBounds(t *testing.T) {
	e := New(7)
	for i := 0; i < 1000; i++ {
		assert.False(t, e.PTrue(0))
	}
}
