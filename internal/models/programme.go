package models

import "time"

// Programme represents a single guide entry for a channel. Start and Stop are
// UTC instants with Start < Stop; programmes for a channel are kept sorted by
// Start and never overlap.
type Programme struct {
	ChannelID   string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Start       time.Time `json:"start"`
	Stop        time.Time `json:"stop"`
}

// Duration returns the scheduled length of the programme.
func (p *Programme) Duration() time.Duration {
	return p.Stop.Sub(p.Start)
}

// Airing reports whether the programme is on air at the given instant,
// using the half-open interval [Start, Stop).
func (p *Programme) Airing(at time.Time) bool {
	return !at.Before(p.Start) && at.Before(p.Stop)
}

// Progress returns the elapsed fraction of the programme at the given
// instant, clamped to [0,1] to tolerate clock skew between the local server
// and the guide source.
func (p *Programme) Progress(at time.Time) float64 {
	total := p.Stop.Sub(p.Start)
	if total <= 0 {
		return 0
	}
	frac := float64(at.Sub(p.Start)) / float64(total)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}
