package presenter

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

func sampleVerdict(scored bool) *entity.Verdict {
	v := entity.NewVerdict("example.test", scored)
	v.Reason("Site has navigation, links, or product/blog content")
	v.Reason("Found <nav> element")
	v.Caveat("Some auto-generated content detected")
	v.Settle(entity.StatusLive, "live", 91)
	v.CheckedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return v
}

func TestRenderVerdict(t *testing.T) {
	out := RenderVerdict(sampleVerdict(true), 100)

	assert.Contains(t, out, "🟢 Live Website")
	assert.Contains(t, out, "example.test")
	assert.Contains(t, out, "91%")
	assert.Contains(t, out, "Found <nav> element")
	assert.Contains(t, out, "Why not 100%")
	assert.Contains(t, out, "2026-10-17 12:00:00 UTC")
}

func TestRenderVerdict_Unscored(t *testing.T) {
	out := RenderVerdict(sampleVerdict(false), 0)

	assert.NotContains(t, out, "Confidence")
	assert.NotContains(t, out, "Why not 100%")
	assert.Contains(t, out, "Reasoning")
	assert.NotContains(t, out, "Registered:")
}

func TestRenderVerdict_Registrable(t *testing.T) {
	v := sampleVerdict(true)
	v.Domain = "shop.example.co.uk"
	v.Registrable = "example.co.uk"

	assert.Contains(t, RenderVerdict(v, 80), "Registered: example.co.uk")
}

func TestSpinner(t *testing.T) {
	want := sampleVerdict(true)
	s := NewSpinner("example.test", func() *entity.Verdict { return want }, nil)

	assert.Contains(t, s.View(), "Classifying example.test")

	msg := s.classify()
	_, cmd := s.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Same(t, want, s.Verdict())
	assert.Empty(t, s.View())
}

func TestSpinner_QuitCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSpinner("example.test", func() *entity.Verdict { return nil }, cancel)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Nil(t, s.Verdict())
}

func TestStatusColors_CoverEveryStatus(t *testing.T) {
	for _, s := range entity.Statuses {
		_, ok := statusColors[s]
		assert.True(t, ok, "no color for %s", s)
	}
}
