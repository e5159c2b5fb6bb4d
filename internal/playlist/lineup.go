package playlist

import "github.com/lolitemaultes/NRTV/internal/models"

// builtinChannel is one row of the default lineup table.
type builtinChannel struct {
	lcn    int
	id     string
	name   string
	stream string
	radio  bool
}

// Northern NSW / Lismore free-to-air lineup. Channel ids match the ids used
// by the xmltv.net regional guides so guide data joins without a mapping
// step.
var builtinLineup = []builtinChannel{
	{2, "abc-nsw", "ABC TV", "https://c.mjh.nz/abc-nsw.m3u8", false},
	{20, "abc-nsw-hd", "ABC TV HD", "https://c.mjh.nz/abc-nsw.m3u8", false},
	{21, "abc-news", "ABC News", "https://c.mjh.nz/abc-news.m3u8", false},
	{22, "abc-kids", "ABC Kids/Family", "https://c.mjh.nz/abc-kids.m3u8", false},
	{23, "abc-entertains", "ABC Entertains", "https://c.mjh.nz/abc-me.m3u8", false},
	{3, "sbs-one", "SBS One", "https://i.mjh.nz/.r/sbs-sbst.m3u8", false},
	{30, "sbs-one-hd", "SBS One HD", "https://i.mjh.nz/.r/sbs-sbst.m3u8", false},
	{31, "sbs-viceland", "SBS Viceland HD", "https://i.mjh.nz/.r/sbs-2syd.m3u8", false},
	{32, "sbs-world-movies", "SBS World Movies", "https://i.mjh.nz/.r/sbs-4syd.m3u8", false},
	{33, "sbs-food", "SBS Food", "https://i.mjh.nz/.r/sbs-3syd.m3u8", false},
	{34, "nitv-hd", "NITV HD", "https://i.mjh.nz/.r/sbs-5nsw.m3u8", false},
	{35, "sbs-worldwatch", "SBS WorldWatch", "https://i.mjh.nz/.r/sbs-6nat.m3u8", false},
	{5, "ten-nnsw", "10 HD Northern NSW", "https://i.mjh.nz/.r/10-nsw.m3u8", false},
	{51, "ten-drama", "10 Drama", "https://i.mjh.nz/.r/10bold-nsw.m3u8", false},
	{52, "ten-comedy", "10 Comedy", "https://i.mjh.nz/.r/10peach-nsw.m3u8", false},
	{53, "sky-news-regional", "Sky News Regional", "https://i.mjh.nz/.r/sky-news-now.m3u8", false},
	{6, "seven", "7 HD Seven", "https://i.mjh.nz/.r/seven-syd.m3u8", false},
	{62, "seven-two", "7two HD", "https://i.mjh.nz/.r/7two-syd.m3u8", false},
	{64, "seven-mate", "7mate HD", "https://i.mjh.nz/.r/7mate-syd.m3u8", false},
	{66, "seven-flix", "7flix", "https://i.mjh.nz/.r/7flix-syd.m3u8", false},
	{8, "nine", "Nine", "https://i.mjh.nz/.r/channel-9-nsw.m3u8", false},
	{82, "nine-gem", "9Gem", "https://i.mjh.nz/.r/gem-nsw.m3u8", false},
	{83, "nine-go", "9Go!", "https://i.mjh.nz/.r/go-nsw.m3u8", false},
	{84, "nine-life", "9Life", "https://i.mjh.nz/.r/life-nsw.m3u8", false},
	{25, "abc-radio-sydney", "ABC Radio Sydney", "https://i.mjh.nz/.r/radio-ih-7135", true},
	{26, "abc-radio-national", "Radio National", "https://i.mjh.nz/.r/radio-ih-7111", true},
	{27, "abc-classic", "ABC Classic", "https://i.mjh.nz/.r/radio-ih-7118", true},
	{28, "triple-j", "Triple J", "https://i.mjh.nz/.r/radio-ih-7115", true},
	{204, "abc-newsradio", "ABC NewsRadio", "https://i.mjh.nz/.r/radio-ih-7110", true},
	{301, "sbs-radio-1", "SBS Radio 1", "https://i.mjh.nz/.r/sbs-sbs-radio-1.m3u8", true},
	{306, "sbs-chill", "SBS Chill", "https://i.mjh.nz/.r/sbs-sbs-chill.m3u8", true},
}

// BuiltinLineup returns a fresh copy of the default Northern NSW channel
// lineup, used when no upstream playlist URL is configured.
func BuiltinLineup() []models.Channel {
	channels := make([]models.Channel, 0, len(builtinLineup))
	for _, b := range builtinLineup {
		kind := models.KindVideo
		if b.radio {
			kind = models.KindRadio
		}
		channels = append(channels, models.Channel{
			ID:        b.id,
			LCN:       b.lcn,
			Name:      b.name,
			StreamURL: b.stream,
			Kind:      kind,
		})
	}
	return channels
}
