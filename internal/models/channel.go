package models

// ChannelKind distinguishes video channels from audio-only (radio) channels.
type ChannelKind string

// Channel kind constants
const (
	KindVideo ChannelKind = "video"
	KindRadio ChannelKind = "radio"
)

// Channel represents a single playable channel from the upstream playlist.
// Channels are replaced wholesale on every successful sync and are never
// mutated in place.
type Channel struct {
	// ID is the stable key used to join playlist channels to guide data
	// (the XMLTV channel id where the playlist provides one).
	ID   string `json:"id"`
	LCN  int    `json:"lcn"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
	// StreamURL is the upstream stream reference (validated absolute URI).
	StreamURL string      `json:"stream"`
	Kind      ChannelKind `json:"kind"`
}

// IsRadio reports whether the channel is audio-only.
func (c *Channel) IsRadio() bool {
	return c.Kind == KindRadio
}
