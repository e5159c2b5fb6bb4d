package models

// NowNext is the derived now/next view for one channel at one instant.
// It is computed on demand from a snapshot and never stored.
type NowNext struct {
	Current *Programme `json:"current,omitempty"`
	Next    *Programme `json:"next,omitempty"`
	// Progress is the elapsed fraction of Current in [0,1]; nil when
	// Current is absent.
	Progress *float64 `json:"progress,omitempty"`
}

// HasGuideData reports whether the result carries any programme information.
func (n *NowNext) HasGuideData() bool {
	return n.Current != nil || n.Next != nil
}
