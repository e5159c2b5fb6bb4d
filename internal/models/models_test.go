package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortChannels_LCNThenName(t *testing.T) {
	channels := []Channel{
		{ID: "c", LCN: 30, Name: "SBS One HD"},
		{ID: "a", LCN: 2, Name: "ABC TV"},
		{ID: "d", LCN: 30, Name: "Alt Feed"},
		{ID: "b", LCN: 2, Name: "ABC TV Plus"},
	}

	SortChannels(channels)

	got := make([]string, 0, len(channels))
	for _, ch := range channels {
		got = append(got, ch.Name)
	}
	assert.Equal(t, []string{"ABC TV", "ABC TV Plus", "Alt Feed", "SBS One HD"}, got)
}

func TestSortChannels_DuplicateLCNsDoNotPanic(t *testing.T) {
	channels := []Channel{
		{ID: "a", LCN: 20, Name: "Same"},
		{ID: "b", LCN: 20, Name: "Same"},
		{ID: "c", LCN: 20, Name: "Same"},
	}

	require.NotPanics(t, func() { SortChannels(channels) })
	assert.Len(t, channels, 3)
}

func TestProgramme_ProgressClamped(t *testing.T) {
	p := Programme{
		Start: time.Date(2024, 8, 1, 18, 0, 0, 0, time.UTC),
		Stop:  time.Date(2024, 8, 1, 19, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"halfway", time.Date(2024, 8, 1, 18, 30, 0, 0, time.UTC), 0.5},
		{"at start", p.Start, 0},
		{"clock skew before start", p.Start.Add(-30 * time.Second), 0},
		{"clock skew past stop", p.Stop.Add(30 * time.Second), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Progress(tt.at)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestProgramme_Airing(t *testing.T) {
	p := Programme{
		Start: time.Date(2024, 8, 1, 18, 0, 0, 0, time.UTC),
		Stop:  time.Date(2024, 8, 1, 19, 0, 0, 0, time.UTC),
	}

	assert.True(t, p.Airing(p.Start), "interval is closed at start")
	assert.True(t, p.Airing(p.Start.Add(30*time.Minute)))
	assert.False(t, p.Airing(p.Stop), "interval is open at stop")
	assert.False(t, p.Airing(p.Start.Add(-time.Second)))
}

func TestSnapshot_CacheRoundTrip(t *testing.T) {
	ch := Channel{
		ID:        "abc-nsw",
		LCN:       2,
		Name:      "ABC TV",
		Logo:      "https://example.com/abc.png",
		StreamURL: "https://example.com/abc.m3u8",
		Kind:      KindVideo,
	}
	p := Programme{
		ChannelID:   "abc-nsw",
		Title:       "News",
		Description: "Evening bulletin",
		Category:    "News",
		Start:       time.Date(2024, 8, 1, 18, 0, 0, 0, time.UTC),
		Stop:        time.Date(2024, 8, 1, 19, 0, 0, 0, time.UTC),
	}

	cached := FromChannel(ch)
	assert.Equal(t, ch, cached.ToChannel())
	got := FromProgramme(p)
	assert.Equal(t, p, got.ToProgramme())
}
