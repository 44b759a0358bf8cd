package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindInvalidLocation, KindOf(&QueryError{Kind: KindInvalidLocation}))

	wrapped := fmt.Errorf("handler: %w", &QueryError{Kind: KindUpstreamTimeout, Input: "10001"})
	assert.Equal(t, KindUpstreamTimeout, KindOf(wrapped))
}

func TestQueryErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &QueryError{Kind: KindUpstreamTimeout, Input: "q", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upstream timeout")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentBestRated, ParseIntent("best_rated"))
	assert.Equal(t, IntentAverageCost, ParseIntent("average_cost"))
	assert.Equal(t, IntentCompareCosts, ParseIntent("compare_costs"))
	assert.Equal(t, IntentCheapest, ParseIntent("cheapest"))
	assert.Equal(t, IntentCheapest, ParseIntent("negotiate"))
	assert.Equal(t, IntentCheapest, ParseIntent(""))
}
