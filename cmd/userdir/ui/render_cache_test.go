package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderCache_GetOrCompute(t *testing.T) {
	rc := NewRenderCache(4)
	calls := 0
	compute := func() string {
		calls++
		return "rendered"
	}

	key := ComputeKey("help", 80, true)
	assert.Equal(t, "rendered", rc.GetOrCompute(key, compute))
	assert.Equal(t, "rendered", rc.GetOrCompute(key, compute))
	assert.Equal(t, 1, calls)

	hits, misses := rc.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestRenderCache_ClearsWhenFull(t *testing.T) {
	rc := NewRenderCache(2)
	for i := 0; i < 3; i++ {
		rc.GetOrCompute(ComputeKey(i), func() string { return "x" })
	}
	assert.Equal(t, 1, rc.Len())
}

func TestComputeKey_DistinguishesInputs(t *testing.T) {
	assert.NotEqual(t, ComputeKey(80, true), ComputeKey(80, false))
	assert.NotEqual(t, ComputeKey(80), ComputeKey(81))
	assert.NotEqual(t, ComputeKey("ab", "c"), ComputeKey("a", "bc"))
	assert.Equal(t, ComputeKey("help", 80), ComputeKey("help", 80))
}

func TestRenderHelp_CachedPerWidthAndTheme(t *testing.T) {
	before := helpCache.Len()
	a := RenderHelp(71, false)
	b := RenderHelp(71, false)
	assert.Equal(t, a, b)
	assert.Contains(t, ansi.Strip(a), "picker")
	assert.LessOrEqual(t, helpCache.Len(), before+1)
}
