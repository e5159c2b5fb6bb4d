package models

import (
	"sort"
	"time"
)

// Snapshot is the immutable pairing of channel list and programme data valid
// as of a sync. A snapshot is built in full by the syncer and published with
// an atomic pointer swap; once published it must never be mutated.
type Snapshot struct {
	// Channels sorted by LCN ascending, ties broken by name.
	Channels []Channel
	// Programmes keyed by channel id, each slice sorted by start time.
	Programmes map[string][]Programme
	// SyncedAt is the wall-clock instant the snapshot was assembled.
	SyncedAt time.Time
}

// EmptySnapshot returns a snapshot with no channels and no guide data.
// Published at boot so readers never observe a nil snapshot.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Programmes: make(map[string][]Programme),
	}
}

// NewSnapshot assembles a snapshot from raw channel and programme data,
// sorting channels into display order. The inputs are owned by the snapshot
// after the call.
func NewSnapshot(channels []Channel, programmes map[string][]Programme, syncedAt time.Time) *Snapshot {
	SortChannels(channels)
	if programmes == nil {
		programmes = make(map[string][]Programme)
	}
	return &Snapshot{
		Channels:   channels,
		Programmes: programmes,
		SyncedAt:   syncedAt,
	}
}

// SortChannels sorts channels into display order: LCN ascending with a
// stable name tie-break, so duplicate LCNs never produce an unstable sort.
func SortChannels(channels []Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].LCN != channels[j].LCN {
			return channels[i].LCN < channels[j].LCN
		}
		return channels[i].Name < channels[j].Name
	})
}

// ChannelByID returns the channel with the given id, if present.
func (s *Snapshot) ChannelByID(id string) (*Channel, bool) {
	for i := range s.Channels {
		if s.Channels[i].ID == id {
			return &s.Channels[i], true
		}
	}
	return nil, false
}

// ProgrammeCount returns the total number of programmes across all channels.
func (s *Snapshot) ProgrammeCount() int {
	n := 0
	for _, progs := range s.Programmes {
		n += len(progs)
	}
	return n
}
