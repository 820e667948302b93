package distributions

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

func sampleMean(t *testing.T, d entities.Distribution, n int) float64 {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 7))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d.Sample(rng)
	}
	return sum / float64(n)
}

func TestDistributions_SampleMeans(t *testing.T) {
	normal, err := NewNormal(50, 5)
	require.NoError(t, err)
	poisson, err := NewPoisson(8)
	require.NoError(t, err)
	ud, err := NewUniformDiscrete(2, 6)
	require.NoError(t, err)
	uc, err := NewUniformContinuous(0, 10)
	require.NoError(t, err)
	cd, err := NewCustomDiscrete([]float64{5, 1}, []float64{0.25, 0.75})
	require.NoError(t, err)
	nb, err := NewNegativeBinomial(4, 0.5)
	require.NoError(t, err)

	tests := []struct {
		name string
		dist entities.Distribution
		tol  float64
	}{
		{"normal", normal, 0.5},
		{"poisson", poisson, 0.3},
		{"uniform_discrete", ud, 0.15},
		{"uniform_continuous", uc, 0.25},
		{"custom_discrete", cd, 0.15},
		{"negative_binomial", nb, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleMean(t, tt.dist, 20000)
			assert.InDelta(t, tt.dist.Mean(), got, tt.tol)
		})
	}
}

func TestDistributions_SameSeedSameDraws(t *testing.T) {
	d, err := NewPoisson(3)
	require.NoError(t, err)

	a := rand.New(rand.NewPCG(9, 9))
	b := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 50; i++ {
		require.Equal(t, d.Sample(a), d.Sample(b))
	}
}

func TestDistributions_Support(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ud, _ := NewUniformDiscrete(3, 5)
	cd, _ := NewCustomDiscrete([]float64{2, 9}, []float64{0.5, 0.5})

	for i := 0; i < 1000; i++ {
		v := ud.Sample(rng)
		assert.True(t, v >= 3 && v <= 5 && v == math.Floor(v), "uniform discrete draw %g out of support", v)
		c := cd.Sample(rng)
		assert.True(t, c == 2 || c == 9, "custom discrete draw %g out of support", c)
	}
}

func TestDistributions_Quantiles(t *testing.T) {
	normal, _ := NewNormal(10, 2)
	assert.InDelta(t, 10, normal.Quantile(0.5), 1e-9)

	poisson, _ := NewPoisson(2)
	// CDF(1) = 0.406, CDF(2) = 0.677
	assert.Equal(t, 2.0, poisson.Quantile(0.5))
	assert.Equal(t, 0.0, poisson.Quantile(0))

	ud, _ := NewUniformDiscrete(1, 4)
	assert.Equal(t, 2.0, ud.Quantile(0.5))
	assert.Equal(t, 4.0, ud.Quantile(1))

	cd, _ := NewCustomDiscrete([]float64{7, 3}, []float64{0.4, 0.6})
	assert.Equal(t, []float64{3, 7}, cd.Values)
	assert.Equal(t, 3.0, cd.Quantile(0.6))
	assert.Equal(t, 7.0, cd.Quantile(0.61))

	nb, _ := NewNegativeBinomial(1, 0.5)
	// geometric: P(0)=0.5, P(<=1)=0.75
	assert.Equal(t, 0.0, nb.Quantile(0.5))
	assert.Equal(t, 1.0, nb.Quantile(0.7))
}

func TestDistributions_InvalidParameters(t *testing.T) {
	_, err := NewNormal(1, -1)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = NewPoisson(-2)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = NewUniformDiscrete(5, 4)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = NewCustomDiscrete([]float64{1, 2}, []float64{0.5, 0.2})
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = NewCustomDiscrete([]float64{1}, []float64{-0.5})
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = NewNegativeBinomial(2, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
}

func TestNewDemandSource(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	det, err := DeterministicDemand(4, 6)
	require.NoError(t, err)
	first, _ := det.GenerateDemand(0, rng)
	third, _ := det.GenerateDemand(2, rng)
	assert.Equal(t, 4.0, first)
	assert.Equal(t, 4.0, third)

	rounded, err := NewDemandSource(entities.DemandUniformContinuous, Params{Lo: 0, Hi: 10, RoundToInt: true})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		v, err := rounded.GenerateDemand(i, rng)
		require.NoError(t, err)
		assert.Equal(t, math.Round(v), v)
	}

	normal, err := NormalDemand(-100, 1)
	require.NoError(t, err)
	v, _ := normal.GenerateDemand(0, rng)
	assert.Equal(t, 0.0, v, "negative draws clamp to zero")

	_, err = NewDemandSource("XX", Params{})
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
	_, err = DeterministicDemand()
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
}
