package models

import "time"

// CachedChannel is the persisted form of a Channel, used to warm-start the
// service from the last good snapshot after a restart.
type CachedChannel struct {
	ChannelID string `gorm:"type:text;primaryKey;column:channel_id"`
	LCN       int    `gorm:"type:integer;not null;column:lcn"`
	Name      string `gorm:"type:text;not null;column:name"`
	Logo      string `gorm:"type:text;column:logo"`
	StreamURL string `gorm:"type:text;not null;column:stream_url"`
	Kind      string `gorm:"type:text;not null;column:kind"`
}

// TableName overrides the GORM table name for cached channels.
func (CachedChannel) TableName() string {
	return "cached_channels"
}

// CachedProgramme is the persisted form of a Programme.
type CachedProgramme struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ChannelID   string    `gorm:"type:text;not null;index;column:channel_id"`
	Title       string    `gorm:"type:text;not null;column:title"`
	Description string    `gorm:"type:text;column:description"`
	Category    string    `gorm:"type:text;column:category"`
	Start       time.Time `gorm:"type:datetime;not null;column:start"`
	Stop        time.Time `gorm:"type:datetime;not null;column:stop"`
}

// TableName overrides the GORM table name for cached programmes.
func (CachedProgramme) TableName() string {
	return "cached_programmes"
}

// ToChannel converts a cached row back into a Channel.
func (c *CachedChannel) ToChannel() Channel {
	return Channel{
		ID:        c.ChannelID,
		LCN:       c.LCN,
		Name:      c.Name,
		Logo:      c.Logo,
		StreamURL: c.StreamURL,
		Kind:      ChannelKind(c.Kind),
	}
}

// ToProgramme converts a cached row back into a Programme with UTC instants.
func (p *CachedProgramme) ToProgramme() Programme {
	return Programme{
		ChannelID:   p.ChannelID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Start:       p.Start.UTC(),
		Stop:        p.Stop.UTC(),
	}
}

// FromChannel converts a Channel into its cached form.
func FromChannel(ch Channel) CachedChannel {
	return CachedChannel{
		ChannelID: ch.ID,
		LCN:       ch.LCN,
		Name:      ch.Name,
		Logo:      ch.Logo,
		StreamURL: ch.StreamURL,
		Kind:      string(ch.Kind),
	}
}

// FromProgramme converts a Programme into its cached form.
func FromProgramme(p Programme) CachedProgramme {
	return CachedProgramme{
		ChannelID:   p.ChannelID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Start:       p.Start.UTC(),
		Stop:        p.Stop.UTC(),
	}
}
