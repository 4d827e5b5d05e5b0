package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTavilyClientMinTierFloor(t *testing.T) {
	// A misconfigured tier must tighten the filter, never open it.
	c := NewTavilyClient("key", SourceTier("tier_9"))
	assert.Equal(t, Tier3, c.minTier)

	c = NewTavilyClient("key", SourceTier(""))
	assert.Equal(t, Tier3, c.minTier)

	c = NewTavilyClient("key", Tier5)
	assert.Equal(t, Tier5, c.minTier)
}
