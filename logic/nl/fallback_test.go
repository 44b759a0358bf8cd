package nl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cost-navigator/types"
)

func TestFallbackParseExtraction(t *testing.T) {
	p := FallbackParse("Who is cheapest for DRG 470 within 25 miles of 10001?")

	assert.Equal(t, "470", p.DRGQuery)
	assert.Equal(t, "10001", p.ZipCode)
	assert.Equal(t, 40, p.RadiusKm) // 25 * 1609 / 1000
	assert.Equal(t, types.IntentCheapest, p.Intent)
	assert.Equal(t, 3, p.TopK)
}

func TestFallbackParseKilometersWinOverMiles(t *testing.T) {
	p := FallbackParse("hospitals within 10 miles or 30 km of 10001")
	assert.Equal(t, 30, p.RadiusKm)
}

func TestFallbackParseMilesConversion(t *testing.T) {
	tests := []struct {
		question string
		radiusKm int
	}{
		{"within 1 mile of 10001", 1},
		{"within 10 mi of 10001", 16},
		{"within 100 miles of 10001", 160},
	}
	for _, tt := range tests {
		p := FallbackParse(tt.question)
		assert.Equal(t, tt.radiusKm, p.RadiusKm, tt.question)
	}
}

func TestFallbackParseIntentPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     types.Intent
	}{
		{"cheapest beats best", "cheapest and best rated hospital", types.IntentCheapest},
		{"best beats average", "best rated average cost hospital", types.IntentBestRated},
		{"average alone", "average cost for drg 023", types.IntentAverageCost},
		{"default is cheapest", "hospitals for drg 023 near 10001", types.IntentCheapest},
		{"rated matches best", "highest rated hospitals", types.IntentBestRated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackParse(tt.question).Intent)
		})
	}
}

func TestFallbackParseMissingFields(t *testing.T) {
	p := FallbackParse("hospital prices")
	assert.Empty(t, p.DRGQuery)
	assert.Empty(t, p.ZipCode)
	assert.Zero(t, p.RadiusKm)
	assert.Equal(t, 3, p.TopK)
}

func TestFallbackParseDeterministic(t *testing.T) {
	q := "best rated for DRG 023 within 50 km of 94103"
	first := FallbackParse(q)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FallbackParse(q))
	}
}
