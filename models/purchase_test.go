package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusSetsStartedAtOnce(t *testing.T) {
	p := &Purchase{Status: StatusToPlay}

	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	p.ApplyStatus(StatusPlaying, first)
	require.NotNil(t, p.StartedAt)
	assert.Equal(t, first, *p.StartedAt)

	// leaving and re-entering playing keeps the original timestamp
	p.ApplyStatus(StatusAbandoned, first.Add(time.Hour))
	later := first.Add(48 * time.Hour)
	p.ApplyStatus(StatusPlaying, later)
	assert.Equal(t, first, *p.StartedAt)
}

func TestApplyStatusRefreshesCompletedAtEveryTime(t *testing.T) {
	p := &Purchase{Status: StatusPlaying}

	first := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	p.ApplyStatus(StatusCompleted, first)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, first, *p.CompletedAt)

	second := first.Add(72 * time.Hour)
	p.ApplyStatus(StatusMastered, second)
	assert.Equal(t, second, *p.CompletedAt, "re-completion refreshes the timestamp")
}

func TestApplyStatusPlainTransition(t *testing.T) {
	p := &Purchase{Status: StatusToPlay}
	p.ApplyStatus(StatusWishlist, time.Now())

	assert.Equal(t, StatusWishlist, p.Status)
	assert.Nil(t, p.StartedAt)
	assert.Nil(t, p.CompletedAt)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range StatusOrder {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("finished"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("Completed"))
}

func TestStatusRankFollowsDeclaredOrder(t *testing.T) {
	assert.Less(t, StatusRank(StatusWishlist), StatusRank(StatusToPlay))
	assert.Less(t, StatusRank(StatusPlaying), StatusRank(StatusCompleted))
	assert.Less(t, StatusRank(StatusCompleted), StatusRank(StatusAbandoned))
	assert.Less(t, StatusRank(StatusAbandoned), StatusRank(StatusMastered))
	assert.Equal(t, len(StatusOrder), StatusRank("bogus"))
}

func TestDisplayTitle(t *testing.T) {
	gameID := uint(42)

	p := Purchase{CustomTitle: "Chrono Trigger", GameID: &gameID}
	assert.Equal(t, "Chrono Trigger", p.DisplayTitle())

	p = Purchase{GameID: &gameID}
	assert.Equal(t, "Game #42", p.DisplayTitle())

	p = Purchase{}
	assert.Equal(t, "Untitled Game", p.DisplayTitle())
}
