package guide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolitemaultes/NRTV/internal/models"
)

// buildSnapshot creates a snapshot with one channel carrying the classic
// evening schedule: News 18:00-19:00, Weather 19:00-19:30.
func buildSnapshot(t *testing.T) *models.Snapshot {
	t.Helper()

	day := func(h, m int) time.Time {
		return time.Date(2024, 8, 1, h, m, 0, 0, time.UTC)
	}

	channels := []models.Channel{
		{ID: "abc-nsw", LCN: 2, Name: "ABC TV", StreamURL: "https://example.com/abc.m3u8", Kind: models.KindVideo},
		{ID: "sbs-one", LCN: 3, Name: "SBS One", StreamURL: "https://example.com/sbs.m3u8", Kind: models.KindVideo},
	}
	programmes := map[string][]models.Programme{
		"abc-nsw": {
			{ChannelID: "abc-nsw", Title: "News", Start: day(18, 0), Stop: day(19, 0)},
			{ChannelID: "abc-nsw", Title: "Weather", Start: day(19, 0), Stop: day(19, 30)},
		},
		// sbs-one deliberately has no guide rows
	}
	return models.NewSnapshot(channels, programmes, day(12, 0))
}

func at(h, m int) time.Time {
	return time.Date(2024, 8, 1, h, m, 0, 0, time.UTC)
}

func TestNowNext_MidProgramme(t *testing.T) {
	snap := buildSnapshot(t)

	nn, err := NowNext(snap, "abc-nsw", at(18, 30))

	require.NoError(t, err)
	require.NotNil(t, nn.Current)
	require.NotNil(t, nn.Next)
	require.NotNil(t, nn.Progress)
	assert.Equal(t, "News", nn.Current.Title)
	assert.Equal(t, "Weather", nn.Next.Title)
	assert.InDelta(t, 0.5, *nn.Progress, 1e-9)
}

func TestNowNext_ExactBoundary(t *testing.T) {
	snap := buildSnapshot(t)

	// [start, stop) means 19:00 belongs to Weather, not News
	nn, err := NowNext(snap, "abc-nsw", at(19, 0))

	require.NoError(t, err)
	require.NotNil(t, nn.Current)
	require.NotNil(t, nn.Progress)
	assert.Equal(t, "Weather", nn.Current.Title)
	assert.InDelta(t, 0.0, *nn.Progress, 1e-9)
}

func TestNowNext_AfterLastProgramme(t *testing.T) {
	snap := buildSnapshot(t)

	nn, err := NowNext(snap, "abc-nsw", at(23, 0))

	require.NoError(t, err)
	assert.Nil(t, nn.Current)
	assert.Nil(t, nn.Next)
	assert.Nil(t, nn.Progress)
	assert.False(t, nn.HasGuideData())
}

func TestNowNext_GapBetweenProgrammes(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2024, 8, 1, h, m, 0, 0, time.UTC)
	}
	channels := []models.Channel{
		{ID: "gappy", LCN: 5, Name: "Gappy", StreamURL: "https://example.com/g.m3u8", Kind: models.KindVideo},
	}
	programmes := map[string][]models.Programme{
		"gappy": {
			{ChannelID: "gappy", Title: "Early Show", Start: day(6, 0), Stop: day(7, 0)},
			{ChannelID: "gappy", Title: "Late Show", Start: day(9, 0), Stop: day(10, 0)},
		},
	}
	snap := models.NewSnapshot(channels, programmes, day(5, 0))

	// Late-run correction case: a gap yields no current, only the next
	nn, err := NowNext(snap, "gappy", day(8, 0))

	require.NoError(t, err)
	assert.Nil(t, nn.Current)
	assert.Nil(t, nn.Progress)
	require.NotNil(t, nn.Next)
	assert.Equal(t, "Late Show", nn.Next.Title)
}

func TestNowNext_BeforeFirstProgramme(t *testing.T) {
	snap := buildSnapshot(t)

	nn, err := NowNext(snap, "abc-nsw", at(6, 0))

	require.NoError(t, err)
	assert.Nil(t, nn.Current)
	require.NotNil(t, nn.Next)
	assert.Equal(t, "News", nn.Next.Title)
}

func TestNowNext_UnknownChannel(t *testing.T) {
	snap := buildSnapshot(t)

	_, err := NowNext(snap, "does-not-exist", at(18, 30))

	require.Error(t, err)
	assert.True(t, IsUnknownChannel(err))
}

func TestNowNext_ChannelWithoutGuideData(t *testing.T) {
	snap := buildSnapshot(t)

	// Present in the playlist, absent from the EPG: valid empty result
	nn, err := NowNext(snap, "sbs-one", at(18, 30))

	require.NoError(t, err)
	assert.Nil(t, nn.Current)
	assert.Nil(t, nn.Next)
	assert.False(t, nn.HasGuideData())
}

func TestStore_PublishAndCurrent(t *testing.T) {
	store := NewStore()

	// Never nil, even before the first sync
	initial := store.Current()
	require.NotNil(t, initial)
	assert.Empty(t, initial.Channels)

	snap := buildSnapshot(t)
	store.Publish(snap)

	assert.Same(t, snap, store.Current())
}

func TestStore_SwapIsWholesale(t *testing.T) {
	store := NewStore()
	first := buildSnapshot(t)
	store.Publish(first)

	second := models.NewSnapshot(
		[]models.Channel{{ID: "nine", LCN: 8, Name: "Nine", StreamURL: "https://example.com/9.m3u8", Kind: models.KindVideo}},
		nil,
		time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC),
	)
	store.Publish(second)

	got := store.Current()
	assert.Same(t, second, got)
	require.Len(t, got.Channels, 1)
	assert.Equal(t, "nine", got.Channels[0].ID)
}
