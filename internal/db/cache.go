package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lolitemaultes/NRTV/internal/models"
)

// Sync metadata keys for the cache_meta table.
const metaKeySyncedAt = "synced_at"

// cacheMeta is a key/value row holding snapshot metadata.
type cacheMeta struct {
	Key   string `gorm:"type:text;primaryKey;column:key"`
	Value string `gorm:"type:text;not null;column:value"`
}

func (cacheMeta) TableName() string {
	return "cache_meta"
}

// ErrNoCachedSnapshot indicates no snapshot has ever been persisted.
var ErrNoCachedSnapshot = errors.New("no cached snapshot")

// SaveSnapshot replaces the cached snapshot in a single transaction. The
// cache always holds at most one snapshot: the last good one.
func (db *DB) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	channels := make([]models.CachedChannel, 0, len(snap.Channels))
	for _, ch := range snap.Channels {
		channels = append(channels, models.FromChannel(ch))
	}
	var programmes []models.CachedProgramme
	for _, progs := range snap.Programmes {
		for _, p := range progs {
			programmes = append(programmes, models.FromProgramme(p))
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CachedChannel{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CachedProgramme{}).Error; err != nil {
			return err
		}
		if len(channels) > 0 {
			if err := tx.CreateInBatches(channels, 200).Error; err != nil {
				return err
			}
		}
		if len(programmes) > 0 {
			if err := tx.CreateInBatches(programmes, 500).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&cacheMeta{}, "key = ?", metaKeySyncedAt).Error; err != nil {
			return err
		}
		meta := cacheMeta{Key: metaKeySyncedAt, Value: snap.SyncedAt.UTC().Format(time.RFC3339)}
		return tx.Create(&meta).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot cache: %w", err)
	}
	return nil
}

// LoadSnapshot rebuilds the cached snapshot, if any. Returns
// ErrNoCachedSnapshot for an empty cache.
func (db *DB) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var meta cacheMeta
	if err := db.WithContext(ctx).First(&meta, "key = ?", metaKeySyncedAt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCachedSnapshot
		}
		return nil, fmt.Errorf("failed to load snapshot cache: %w", err)
	}
	syncedAt, err := time.Parse(time.RFC3339, meta.Value)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot cache timestamp: %w", err)
	}

	var cachedChannels []models.CachedChannel
	if err := db.WithContext(ctx).Find(&cachedChannels).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached channels: %w", err)
	}
	var cachedProgrammes []models.CachedProgramme
	if err := db.WithContext(ctx).Order("channel_id, start").Find(&cachedProgrammes).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached programmes: %w", err)
	}

	channels := make([]models.Channel, 0, len(cachedChannels))
	for i := range cachedChannels {
		channels = append(channels, cachedChannels[i].ToChannel())
	}
	programmes := make(map[string][]models.Programme)
	for i := range cachedProgrammes {
		p := cachedProgrammes[i].ToProgramme()
		programmes[p.ChannelID] = append(programmes[p.ChannelID], p)
	}

	return models.NewSnapshot(channels, programmes, syncedAt.UTC()), nil
}
