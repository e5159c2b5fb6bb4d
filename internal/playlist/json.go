package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/models"
)

// jsonChannel is one entry of a JSON channel map, keyed by LCN:
//
//	{"2": {"lcn": 2, "name": "ABC TV", "stream": "https://...", "isAudioOnly": false}}
type jsonChannel struct {
	LCN         int    `json:"lcn"`
	Name        string `json:"name"`
	Stream      string `json:"stream"`
	Logo        string `json:"logo"`
	ID          string `json:"id"`
	IsAudioOnly bool   `json:"isAudioOnly"`
}

// parseJSON parses a JSON channel document. Both the LCN-keyed map shape and
// a plain array of entries are accepted. Entries failing validation are
// dropped with a warning.
func parseJSON(r io.Reader) ([]models.Channel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}

	var entries []jsonChannel
	if err := json.Unmarshal(data, &entries); err != nil {
		var keyed map[string]jsonChannel
		if err := json.Unmarshal(data, &keyed); err != nil {
			return nil, fmt.Errorf("decoding JSON playlist: %w", err)
		}
		for key, e := range keyed {
			if e.LCN == 0 {
				if n, err := strconv.Atoi(key); err == nil {
					e.LCN = n
				}
			}
			entries = append(entries, e)
		}
	}

	var channels []models.Channel
	for _, e := range entries {
		kind := models.KindVideo
		if e.IsAudioOnly {
			kind = models.KindRadio
		}
		ch := models.Channel{
			ID:        e.ID,
			LCN:       e.LCN,
			Name:      e.Name,
			Logo:      e.Logo,
			StreamURL: e.Stream,
			Kind:      kind,
		}
		if ch.ID == "" {
			ch.ID = deriveChannelID(ch.LCN, ch.Name)
		}
		if err := validateChannel(&ch); err != nil {
			logger.Log.Warn().
				Str("name", e.Name).
				Str("stream", e.Stream).
				Err(err).
				Msg("Dropping playlist entry")
			continue
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
