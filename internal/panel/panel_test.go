package panel_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/panel"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, panel.StatusSuccess, panel.Classify(3, nil))
	assert.Equal(t, panel.StatusEmpty, panel.Classify(0, nil))
	assert.Equal(t, panel.StatusError, panel.Classify(3, assert.AnError))
	assert.Equal(t, panel.StatusError, panel.Classify(0, assert.AnError))
	assert.Equal(t, "empty", panel.StatusEmpty.String())
}

func TestList_Apply(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success replaces content", func(t *testing.T) {
		clock := clockwork.NewFakeClockAt(start)
		list := panel.NewList("nearby", clock)

		list.Apply(panel.StatusSuccess, []string{"a", "b"}, "none")
		snap := list.Snapshot()

		assert.Equal(t, []string{"a", "b"}, snap.Lines)
		assert.False(t, snap.Placeholder)
		assert.Equal(t, start, snap.UpdatedAt)
		assert.Equal(t, "success", snap.LastStatus)
	})

	t.Run("empty shows exactly one placeholder", func(t *testing.T) {
		list := panel.NewList("nearby", clockwork.NewFakeClockAt(start))

		list.Apply(panel.StatusSuccess, []string{"a", "b"}, "none")
		list.Apply(panel.StatusEmpty, nil, "No recent alerts for this location.")
		snap := list.Snapshot()

		assert.Equal(t, []string{"No recent alerts for this location."}, snap.Lines)
		assert.True(t, snap.Placeholder)
	})

	t.Run("error keeps stale content", func(t *testing.T) {
		clock := clockwork.NewFakeClockAt(start)
		list := panel.NewList("alerts", clock)

		list.Apply(panel.StatusSuccess, []string{"old"}, "none")
		clock.Advance(time.Minute)
		list.Apply(panel.StatusError, nil, "none")
		snap := list.Snapshot()

		assert.Equal(t, []string{"old"}, snap.Lines)
		assert.Equal(t, start, snap.UpdatedAt)
		assert.Equal(t, "error", snap.LastStatus)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		list := panel.NewList("alerts", nil)
		lines := []string{"x"}

		list.Apply(panel.StatusSuccess, lines, "none")
		lines[0] = "mutated"
		snap := list.Snapshot()
		snap.Lines[0] = "also mutated"

		assert.Equal(t, []string{"x"}, list.Snapshot().Lines)
	})

	t.Run("fresh list is empty", func(t *testing.T) {
		snap := panel.NewList("alerts", nil).Snapshot()

		assert.Empty(t, snap.Lines)
		assert.NotNil(t, snap.Lines)
		assert.Equal(t, "alerts", panel.NewList("alerts", nil).Name())
	})
}
