// Package xmltv parses XMLTV electronic programme guide documents into
// structured programme records keyed by channel id.
package xmltv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/models"
)

// ErrMalformedGuide indicates the guide document is not well-formed XML.
// The whole parse aborts; individually bad entries are skipped instead.
var ErrMalformedGuide = errors.New("malformed guide document")

// Guide is the parsed form of an XMLTV document.
type Guide struct {
	// Programmes keyed by XMLTV channel id, sorted by start time,
	// non-overlapping, all instants normalized to UTC.
	Programmes map[string][]models.Programme
	// LCN maps XMLTV channel ids to logical channel numbers, for guide
	// sources that carry an <lcn> element per channel.
	LCN map[string]int
	// Skipped counts entries dropped during parsing (missing fields,
	// unparseable or inverted times, overlaps).
	Skipped int
}

// xmlDoc mirrors the subset of the XMLTV schema we consume.
type xmlDoc struct {
	XMLName    xml.Name       `xml:"tv"`
	Channels   []xmlChannel   `xml:"channel"`
	Programmes []xmlProgramme `xml:"programme"`
}

type xmlChannel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
	LCN         string `xml:"lcn"`
}

type xmlProgramme struct {
	Channel  string `xml:"channel,attr"`
	Start    string `xml:"start,attr"`
	Stop     string `xml:"stop,attr"`
	Title    string `xml:"title"`
	Desc     string `xml:"desc"`
	Category string `xml:"category"`
}

// Parse reads an XMLTV document and returns the structured guide. A document
// that is not well-formed XML fails with ErrMalformedGuide; individual
// programme entries missing required fields or carrying unusable times are
// skipped with a logged warning, never failing the whole parse.
func Parse(r io.Reader) (*Guide, error) {
	dec := xml.NewDecoder(r)
	// Guide feeds are not reliably UTF-8
	dec.CharsetReader = charset.NewReaderLabel

	var doc xmlDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGuide, err)
	}

	g := &Guide{
		Programmes: make(map[string][]models.Programme),
		LCN:        make(map[string]int),
	}

	for _, ch := range doc.Channels {
		if ch.ID == "" || ch.LCN == "" {
			continue
		}
		lcn, err := strconv.Atoi(strings.TrimSpace(ch.LCN))
		if err != nil {
			continue
		}
		g.LCN[ch.ID] = lcn
	}

	for _, p := range doc.Programmes {
		prog, ok := buildProgramme(p)
		if !ok {
			g.Skipped++
			continue
		}
		g.Programmes[prog.ChannelID] = append(g.Programmes[prog.ChannelID], prog)
	}

	for id, progs := range g.Programmes {
		g.Programmes[id], g.Skipped = normalize(progs, g.Skipped)
	}

	return g, nil
}

// buildProgramme validates one raw entry. Required fields are the channel
// reference, start, stop and title; entries with stop <= start are dropped,
// not corrected.
func buildProgramme(p xmlProgramme) (models.Programme, bool) {
	title := strings.TrimSpace(p.Title)
	if p.Channel == "" || p.Start == "" || p.Stop == "" || title == "" {
		logger.Log.Warn().
			Str("channel", p.Channel).
			Str("start", p.Start).
			Msg("Skipping guide entry with missing required fields")
		return models.Programme{}, false
	}

	start, err := ParseTime(p.Start)
	if err != nil {
		logger.Log.Warn().
			Str("channel", p.Channel).
			Str("start", p.Start).
			Err(err).
			Msg("Skipping guide entry with unparseable start time")
		return models.Programme{}, false
	}
	stop, err := ParseTime(p.Stop)
	if err != nil {
		logger.Log.Warn().
			Str("channel", p.Channel).
			Str("stop", p.Stop).
			Err(err).
			Msg("Skipping guide entry with unparseable stop time")
		return models.Programme{}, false
	}
	if !start.Before(stop) {
		logger.Log.Warn().
			Str("channel", p.Channel).
			Str("title", title).
			Time("start", start).
			Time("stop", stop).
			Msg("Skipping guide entry with inverted interval")
		return models.Programme{}, false
	}

	return models.Programme{
		ChannelID:   p.Channel,
		Title:       title,
		Description: strings.TrimSpace(p.Desc),
		Category:    strings.TrimSpace(p.Category),
		Start:       start,
		Stop:        stop,
	}, true
}

// normalize sorts a channel's programmes by start time and drops entries
// overlapping their predecessor, keeping the earlier one. The published
// invariant is that per-channel programmes are sorted and non-overlapping.
func normalize(progs []models.Programme, skipped int) ([]models.Programme, int) {
	sort.SliceStable(progs, func(i, j int) bool {
		return progs[i].Start.Before(progs[j].Start)
	})
	out := progs[:0]
	for _, p := range progs {
		if len(out) > 0 && p.Start.Before(out[len(out)-1].Stop) {
			logger.Log.Warn().
				Str("channel", p.ChannelID).
				Str("title", p.Title).
				Time("start", p.Start).
				Msg("Dropping overlapping guide entry")
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, skipped
}

// xmltvLayouts are the accepted timestamp shapes, most specific first.
// Offset-less timestamps are taken as UTC.
var xmltvLayouts = []string{
	"20060102150405 -0700",
	"20060102150405-0700",
	"20060102150405",
	"200601021504 -0700",
	"200601021504",
}

// ParseTime parses an XMLTV timestamp such as "20240801060000 +1000" and
// returns the instant normalized to UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}
	for _, layout := range xmltvLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized XMLTV time %q", s)
}
