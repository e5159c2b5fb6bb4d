// Package syncer drives the periodic playlist and guide refresh. It is the
// only writer of the published snapshot and the propagation boundary for
// upstream errors: a failed cycle leaves the previous snapshot untouched and
// the service queryable on stale data indefinitely.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/models"
	"github.com/lolitemaultes/NRTV/internal/xmltv"
)

// PlaylistFetcher retrieves the upstream channel lineup.
type PlaylistFetcher interface {
	Fetch(ctx context.Context) ([]models.Channel, time.Time, error)
}

// GuideFetcher retrieves and parses the upstream XMLTV guide.
type GuideFetcher interface {
	Fetch(ctx context.Context) (*xmltv.Guide, error)
}

// SnapshotCache persists the last good snapshot for warm restarts. Cache
// failures are logged and never block publishing.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
}

// State of the syncer's two-state machine.
const (
	StateIdle    = "idle"
	StateSyncing = "syncing"
)

// Status is a point-in-time view of the syncer for the health endpoint.
type Status struct {
	State        string     `json:"state"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	LastRunID    string     `json:"last_run_id,omitempty"`
}

// Syncer owns the sync cycle. Triggers arriving while a cycle is in flight
// are coalesced so at most one fetch is ever running.
type Syncer struct {
	store    *guide.Store
	playlist PlaylistFetcher
	guide    GuideFetcher
	cache    SnapshotCache // may be nil
	interval time.Duration

	trigger chan struct{}

	mu           sync.Mutex
	syncing      bool
	lastSyncedAt time.Time
	lastError    string
	lastRunID    string
}

// New creates a syncer. cache may be nil to disable persistence.
func New(store *guide.Store, playlist PlaylistFetcher, guideFetcher GuideFetcher, cache SnapshotCache, interval time.Duration) *Syncer {
	return &Syncer{
		store:    store,
		playlist: playlist,
		guide:    guideFetcher,
		cache:    cache,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// TriggerSync requests an immediate sync. Returns false when a request is
// already pending or in flight; the caller's trigger is then coalesced into
// that cycle.
func (s *Syncer) TriggerSync() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status reports the current state machine position and last outcome.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:     StateIdle,
		LastError: s.lastError,
		LastRunID: s.lastRunID,
	}
	if s.syncing {
		st.State = StateSyncing
	}
	if !s.lastSyncedAt.IsZero() {
		t := s.lastSyncedAt
		st.LastSyncedAt = &t
	}
	return st
}

// Run services the ticker and manual triggers until ctx is cancelled. An
// in-flight fetch is simply abandoned on shutdown; no partial snapshot is
// ever published.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		case <-s.trigger:
			s.runCycle(ctx)
		}
	}
}

// SyncOnce runs a single cycle synchronously. Used at startup and by tests.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

// runCycle executes one Idle -> Syncing -> Idle transition. Failure of
// either fetcher aborts the cycle: the previous snapshot stays published
// and the failure is recorded for observability.
func (s *Syncer) runCycle(ctx context.Context) error {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return nil
	}
	s.syncing = true
	runID := uuid.NewString()
	s.lastRunID = runID
	s.mu.Unlock()

	start := time.Now()
	log := logger.Log.With().Str("run_id", runID).Logger()
	log.Info().Msg("Sync cycle started")

	snap, err := s.buildSnapshot(ctx)

	s.mu.Lock()
	s.syncing = false
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()

		syncsTotal.WithLabelValues("failure").Inc()
		syncDuration.Observe(time.Since(start).Seconds())
		log.Error().Err(err).Msg("Sync cycle failed, keeping previous snapshot")
		return err
	}
	s.lastError = ""
	s.lastSyncedAt = snap.SyncedAt
	s.mu.Unlock()

	s.store.Publish(snap)

	syncsTotal.WithLabelValues("success").Inc()
	syncDuration.Observe(time.Since(start).Seconds())
	channelsGauge.Set(float64(len(snap.Channels)))
	programmesGauge.Set(float64(snap.ProgrammeCount()))
	lastSuccessGauge.Set(float64(snap.SyncedAt.Unix()))

	log.Info().
		Int("channels", len(snap.Channels)).
		Int("programmes", snap.ProgrammeCount()).
		Dur("duration", time.Since(start)).
		Msg("Sync cycle completed")

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, snap); err != nil {
			log.Warn().Err(err).Msg("Failed to persist snapshot cache")
		}
	}
	return nil
}

// buildSnapshot runs both fetchers and joins their results. Ownership of the
// result passes to the store on publish.
func (s *Syncer) buildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	channels, fetchedAt, err := s.playlist.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("playlist fetch: %w", err)
	}

	g, err := s.guide.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("guide fetch: %w", err)
	}

	return models.NewSnapshot(channels, joinGuide(channels, g), fetchedAt), nil
}

// joinGuide attaches guide programmes to playlist channels. The two feeds
// are sourced independently: ids are matched directly first, then via the
// guide's channel-id to LCN mapping. Channels without a match simply have no
// guide rows, which the query layer surfaces as a "no guide data" result.
func joinGuide(channels []models.Channel, g *xmltv.Guide) map[string][]models.Programme {
	lcnToGuideID := make(map[int]string, len(g.LCN))
	for guideID, lcn := range g.LCN {
		if _, taken := lcnToGuideID[lcn]; !taken {
			lcnToGuideID[lcn] = guideID
		}
	}

	joined := make(map[string][]models.Programme, len(channels))
	for _, ch := range channels {
		progs, ok := g.Programmes[ch.ID]
		if !ok && ch.LCN > 0 {
			if guideID, found := lcnToGuideID[ch.LCN]; found {
				progs = g.Programmes[guideID]
			}
		}
		if len(progs) == 0 {
			continue
		}
		rekeyed := make([]models.Programme, len(progs))
		copy(rekeyed, progs)
		for i := range rekeyed {
			rekeyed[i].ChannelID = ch.ID
		}
		joined[ch.ID] = rekeyed
	}
	return joined
}
