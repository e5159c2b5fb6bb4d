package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/models"
	"github.com/lolitemaultes/NRTV/internal/xmltv"
)

// stubPlaylist is a PlaylistFetcher test double
type stubPlaylist struct {
	channels []models.Channel
	err      error
	calls    atomic.Int32
	started  chan struct{} // closed-ish signal per call, may be nil
	release  chan struct{} // fetch blocks until closed, may be nil
}

func (s *stubPlaylist) Fetch(ctx context.Context) ([]models.Channel, time.Time, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, time.Time{}, s.err
	}
	return append([]models.Channel(nil), s.channels...), time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC), nil
}

// stubGuide is a GuideFetcher test double
type stubGuide struct {
	guide *xmltv.Guide
	err   error
}

func (s *stubGuide) Fetch(ctx context.Context) (*xmltv.Guide, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.guide, nil
}

// stubCache records SaveSnapshot calls
type stubCache struct {
	saved atomic.Int32
	err   error
}

func (s *stubCache) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	s.saved.Add(1)
	return s.err
}

func testChannels() []models.Channel {
	return []models.Channel{
		{ID: "abc-nsw", LCN: 2, Name: "ABC TV", StreamURL: "https://example.com/abc.m3u8", Kind: models.KindVideo},
		{ID: "ten-nnsw", LCN: 5, Name: "10 HD", StreamURL: "https://example.com/ten.m3u8", Kind: models.KindVideo},
	}
}

func testGuide() *xmltv.Guide {
	day := func(h int) time.Time { return time.Date(2024, 8, 1, h, 0, 0, 0, time.UTC) }
	return &xmltv.Guide{
		Programmes: map[string][]models.Programme{
			"abc-nsw": {
				{ChannelID: "abc-nsw", Title: "News", Start: day(18), Stop: day(19)},
			},
			// Guide uses a different id for channel 5; joined via LCN
			"ten-guide-id": {
				{ChannelID: "ten-guide-id", Title: "Movie", Start: day(20), Stop: day(22)},
			},
		},
		LCN: map[string]int{"abc-nsw": 2, "ten-guide-id": 5},
	}
}

func TestSyncOnce_PublishesSnapshot(t *testing.T) {
	store := guide.NewStore()
	cache := &stubCache{}
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, cache, time.Hour)

	err := s.SyncOnce(context.Background())

	require.NoError(t, err)
	snap := store.Current()
	require.Len(t, snap.Channels, 2)
	assert.Equal(t, 2, snap.ProgrammeCount())

	// Direct id join
	require.Len(t, snap.Programmes["abc-nsw"], 1)
	assert.Equal(t, "News", snap.Programmes["abc-nsw"][0].Title)

	// LCN fallback join, rekeyed to the playlist channel id
	require.Len(t, snap.Programmes["ten-nnsw"], 1)
	assert.Equal(t, "Movie", snap.Programmes["ten-nnsw"][0].Title)
	assert.Equal(t, "ten-nnsw", snap.Programmes["ten-nnsw"][0].ChannelID)

	assert.Equal(t, int32(1), cache.saved.Load())

	status := s.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Empty(t, status.LastError)
	require.NotNil(t, status.LastSyncedAt)
	assert.NotEmpty(t, status.LastRunID)
}

func TestSyncOnce_PlaylistFailureKeepsPreviousSnapshot(t *testing.T) {
	store := guide.NewStore()
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, nil, time.Hour)
	require.NoError(t, s.SyncOnce(context.Background()))
	previous := store.Current()

	failing := New(store, &stubPlaylist{err: errors.New("upstream down")}, &stubGuide{guide: testGuide()}, nil, time.Hour)
	err := failing.SyncOnce(context.Background())

	require.Error(t, err)
	assert.Same(t, previous, store.Current(), "failed cycle must not touch the published snapshot")
	assert.Contains(t, failing.Status().LastError, "upstream down")
	assert.Equal(t, StateIdle, failing.Status().State)
}

func TestSyncOnce_GuideFailureKeepsPreviousSnapshot(t *testing.T) {
	store := guide.NewStore()
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, nil, time.Hour)
	require.NoError(t, s.SyncOnce(context.Background()))
	previous := store.Current()

	failing := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{err: errors.New("guide down")}, nil, time.Hour)
	err := failing.SyncOnce(context.Background())

	require.Error(t, err)
	assert.Same(t, previous, store.Current())
}

func TestSyncOnce_CacheFailureIsNotFatal(t *testing.T) {
	store := guide.NewStore()
	cache := &stubCache{err: errors.New("disk full")}
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, cache, time.Hour)

	err := s.SyncOnce(context.Background())

	require.NoError(t, err)
	assert.Len(t, store.Current().Channels, 2)
}

func TestTriggerSync_Coalesces(t *testing.T) {
	store := guide.NewStore()
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, nil, time.Hour)

	assert.True(t, s.TriggerSync())
	assert.False(t, s.TriggerSync(), "second trigger while one is pending is coalesced")
}

func TestRunCycle_AtMostOneInFlight(t *testing.T) {
	store := guide.NewStore()
	pl := &stubPlaylist{
		channels: testChannels(),
		started:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	s := New(store, pl, &stubGuide{guide: testGuide()}, nil, time.Hour)

	done := make(chan error, 1)
	go func() { done <- s.SyncOnce(context.Background()) }()

	// Wait for the first cycle to be mid-fetch
	select {
	case <-pl.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle never started fetching")
	}
	assert.Equal(t, StateSyncing, s.Status().State)

	// A second cycle triggered now must be a no-op
	require.NoError(t, s.SyncOnce(context.Background()))
	assert.Equal(t, int32(1), pl.calls.Load())

	close(pl.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, s.Status().State)
	assert.Equal(t, int32(1), pl.calls.Load())
}

func TestRun_ManualTrigger(t *testing.T) {
	store := guide.NewStore()
	s := New(store, &stubPlaylist{channels: testChannels()}, &stubGuide{guide: testGuide()}, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.TriggerSync()

	require.Eventually(t, func() bool {
		return len(store.Current().Channels) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJoinGuide_NoMatchMeansNoGuideRows(t *testing.T) {
	channels := []models.Channel{
		{ID: "mystery", LCN: 0, Name: "Mystery", StreamURL: "https://example.com/m.m3u8", Kind: models.KindVideo},
	}

	joined := joinGuide(channels, testGuide())

	assert.Empty(t, joined["mystery"])
}
