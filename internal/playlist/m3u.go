package playlist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/models"
)

const maxLineSize = 1 << 20 // 1 MiB per line

var extinfAttrRe = regexp.MustCompile(`([a-zA-Z0-9-]+)="([^"]*)"`)

// parseM3U parses an extended M3U playlist into channels. Channel metadata
// comes from EXTINF attributes (tvg-id, tvg-logo, tvg-chno / channel-number,
// radio); the display name is the text after the last comma of the EXTINF
// line. Entries failing validation are dropped with a warning.
func parseM3U(r io.Reader) ([]models.Channel, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var channels []models.Channel
	var extinf string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXTINF:") {
			extinf = line
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if extinf == "" {
			continue
		}
		ch, ok := channelFromEXTINF(extinf, line)
		extinf = ""
		if !ok {
			continue
		}
		channels = append(channels, ch)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	return channels, nil
}

// channelFromEXTINF builds a channel from one EXTINF line and its stream URL.
func channelFromEXTINF(extinf, streamURL string) (models.Channel, bool) {
	attrs := make(map[string]string)
	for _, m := range extinfAttrRe.FindAllStringSubmatch(extinf, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}

	name := displayName(extinf)
	if name == "" {
		name = attrs["tvg-name"]
	}

	lcn := 0
	for _, key := range []string{"tvg-chno", "channel-number", "lcn"} {
		if v, ok := attrs[key]; ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				lcn = n
				break
			}
		}
	}

	kind := models.KindVideo
	if strings.EqualFold(attrs["radio"], "true") {
		kind = models.KindRadio
	}

	ch := models.Channel{
		ID:        attrs["tvg-id"],
		LCN:       lcn,
		Name:      name,
		Logo:      attrs["tvg-logo"],
		StreamURL: streamURL,
		Kind:      kind,
	}
	if ch.ID == "" {
		ch.ID = deriveChannelID(lcn, name)
	}

	if err := validateChannel(&ch); err != nil {
		logger.Log.Warn().
			Str("name", name).
			Str("stream", streamURL).
			Err(err).
			Msg("Dropping playlist entry")
		return models.Channel{}, false
	}
	return ch, true
}

// displayName extracts the title after the attribute block of an EXTINF line.
func displayName(extinf string) string {
	i := strings.LastIndex(extinf, ",")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(extinf[i+1:])
}

// deriveChannelID builds a stable id for entries without a tvg-id. The LCN
// is preferred; otherwise the name is slugified.
func deriveChannelID(lcn int, name string) string {
	if lcn > 0 {
		return "lcn-" + strconv.Itoa(lcn)
	}
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(slug, "-")
}
