package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.state)
	assert.Contains(t, bar.View(), "ready")
}

func TestBar_RenderingShowsMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateRendering)
	bar.SetMessage("rendering previews (2 done)")

	assert.Contains(t, bar.View(), "rendering previews (2 done)")
}

func TestBar_ErrorPrefix(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateError)
	bar.SetMessage("boom")

	assert.Contains(t, bar.View(), "✗ boom")
}

func TestBar_HintsOnRight(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(60)
	bar.SetHints("q quit")

	assert.Contains(t, bar.View(), "q quit")
}
