package promo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownCodes(t *testing.T) {
	r := NewStaticResolver()

	d, ok := r.Resolve("TIXMOJO10")
	require.True(t, ok)
	assert.True(t, d.Fraction.Equal(decimal.NewFromFloat(0.10)))
	assert.Equal(t, "10% discount applied", d.Message)

	d, ok = r.Resolve("EVENT25")
	require.True(t, ok)
	assert.True(t, d.Fraction.Equal(decimal.NewFromFloat(0.25)))
	assert.Equal(t, "25% discount applied", d.Message)
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := NewStaticResolver()

	for _, code := range []string{"tixmojo10", "TixMojo10", "  TIXMOJO10  "} {
		d, ok := r.Resolve(code)
		require.True(t, ok, code)
		assert.Equal(t, "TIXMOJO10", d.Code)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewStaticResolver()

	_, ok := r.Resolve("NOPE50")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}
