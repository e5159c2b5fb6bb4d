package guide

import (
	"sort"
	"time"

	"github.com/lolitemaultes/NRTV/internal/models"
)

// NowNext answers the now/next query for one channel at the given instant.
//
// "Current" is the programme whose [start, stop) interval contains the
// instant; when the guide has a gap there, Current is absent and callers
// must surface a "no guide data" state rather than stale data. "Next" is
// the earliest programme starting after the instant (after Current's stop
// when Current exists). Progress is clamped to [0,1] to tolerate clock skew
// between this server and the guide source.
//
// A channel id absent from the snapshot's channel list yields
// ErrUnknownChannel; a known channel with no guide rows yields an empty
// result, which is an expected inconsistency between the playlist and EPG
// feeds.
func NowNext(snap *models.Snapshot, channelID string, at time.Time) (models.NowNext, error) {
	if _, ok := snap.ChannelByID(channelID); !ok {
		return models.NowNext{}, ErrUnknownChannel
	}
	progs := snap.Programmes[channelID]
	return nowNextIn(progs, at), nil
}

// nowNextIn computes the result over one channel's sorted programme list.
func nowNextIn(progs []models.Programme, at time.Time) models.NowNext {
	if len(progs) == 0 {
		return models.NowNext{}
	}

	// First programme starting strictly after the instant.
	idx := sort.Search(len(progs), func(i int) bool {
		return progs[i].Start.After(at)
	})

	var result models.NowNext

	// The candidate for "current" is the programme immediately before idx.
	if idx > 0 && progs[idx-1].Airing(at) {
		cur := progs[idx-1]
		progress := cur.Progress(at)
		result.Current = &cur
		result.Progress = &progress
	}

	if idx < len(progs) {
		next := progs[idx]
		result.Next = &next
	}

	return result
}
