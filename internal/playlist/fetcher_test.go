package playlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolitemaultes/NRTV/internal/models"
)

const testTimeout = 2 * time.Second

const sampleM3U = `#EXTM3U
#EXTINF:-1 tvg-id="abc-nsw" tvg-logo="https://example.com/abc.png" tvg-chno="2" group-title="FTA",ABC TV
https://example.com/abc.m3u8
#EXTINF:-1 tvg-id="triple-j" tvg-chno="28" radio="true",Triple J
https://example.com/triplej
#EXTINF:-1 tvg-chno="5",10 HD Northern NSW
https://example.com/ten.m3u8
#EXTINF:-1 tvg-id="bad-stream" tvg-chno="99",Broken
not-a-url
#EXTINF:-1 tvg-id="bad-scheme" tvg-chno="98",FTP Channel
ftp://example.com/stream
`

func TestParseM3U(t *testing.T) {
	channels, err := parseM3U(strings.NewReader(sampleM3U))

	require.NoError(t, err)
	require.Len(t, channels, 3, "invalid stream URIs are dropped, not fatal")

	abc := channels[0]
	assert.Equal(t, "abc-nsw", abc.ID)
	assert.Equal(t, 2, abc.LCN)
	assert.Equal(t, "ABC TV", abc.Name)
	assert.Equal(t, "https://example.com/abc.png", abc.Logo)
	assert.Equal(t, "https://example.com/abc.m3u8", abc.StreamURL)
	assert.Equal(t, models.KindVideo, abc.Kind)

	jjj := channels[1]
	assert.Equal(t, models.KindRadio, jjj.Kind)

	// No tvg-id: id derived from the LCN
	ten := channels[2]
	assert.Equal(t, "lcn-5", ten.ID)
	assert.Equal(t, 5, ten.LCN)
}

func TestParseM3U_EmptyInput(t *testing.T) {
	channels, err := parseM3U(strings.NewReader("#EXTM3U\n"))

	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestParseJSON_KeyedMap(t *testing.T) {
	doc := `{
  "2": {"lcn": 2, "name": "ABC TV", "stream": "https://example.com/abc.m3u8", "isAudioOnly": false},
  "28": {"lcn": 28, "name": "Triple J", "stream": "https://example.com/jjj", "isAudioOnly": true},
  "99": {"lcn": 99, "name": "Broken", "stream": "::not a uri::"}
}`

	channels, err := parseJSON(strings.NewReader(doc))

	require.NoError(t, err)
	require.Len(t, channels, 2)

	byName := make(map[string]models.Channel)
	for _, ch := range channels {
		byName[ch.Name] = ch
	}
	assert.Equal(t, models.KindVideo, byName["ABC TV"].Kind)
	assert.Equal(t, models.KindRadio, byName["Triple J"].Kind)
	assert.Equal(t, "lcn-28", byName["Triple J"].ID)
}

func TestParseJSON_Array(t *testing.T) {
	doc := `[{"id": "abc-news", "lcn": 21, "name": "ABC News", "stream": "https://example.com/news.m3u8"}]`

	channels, err := parseJSON(strings.NewReader(doc))

	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "abc-news", channels[0].ID)
}

func TestParseJSON_Garbage(t *testing.T) {
	_, err := parseJSON(strings.NewReader("not json"))

	require.Error(t, err)
}

func TestFetch_M3USource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NRTV/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(sampleM3U))
	}))
	defer srv.Close()

	f := NewFetcher([]string{srv.URL}, "NRTV/test", testTimeout)

	channels, fetchedAt, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, channels, 3)
	assert.False(t, fetchedAt.IsZero())
}

func TestFetch_FailsOverToNextURL(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleM3U))
	}))
	defer good.Close()

	f := NewFetcher([]string{bad.URL, good.URL}, "NRTV/test", testTimeout)

	channels, _, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, channels, 3)
}

func TestFetch_AllSourcesDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher([]string{srv.URL}, "NRTV/test", testTimeout)

	_, _, err := f.Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestFetch_BuiltinLineupWhenUnconfigured(t *testing.T) {
	f := NewFetcher(nil, "NRTV/test", testTimeout)

	channels, _, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, channels)

	// Every builtin channel must pass the same validation as remote ones
	for i := range channels {
		assert.NoError(t, validateChannel(&channels[i]), "channel %s", channels[i].ID)
	}
}

func TestValidateChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel models.Channel
		wantErr bool
	}{
		{
			name:    "valid",
			channel: models.Channel{ID: "a", Name: "A", LCN: 1, StreamURL: "https://example.com/a.m3u8"},
		},
		{
			name:    "missing name",
			channel: models.Channel{ID: "a", LCN: 1, StreamURL: "https://example.com/a.m3u8"},
			wantErr: true,
		},
		{
			name:    "relative stream URI",
			channel: models.Channel{ID: "a", Name: "A", LCN: 1, StreamURL: "/local/stream"},
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			channel: models.Channel{ID: "a", Name: "A", LCN: 1, StreamURL: "rtsp://example.com/a"},
			wantErr: true,
		},
		{
			name:    "negative LCN",
			channel: models.Channel{ID: "a", Name: "A", LCN: -1, StreamURL: "https://example.com/a.m3u8"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateChannel(&tt.channel)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
