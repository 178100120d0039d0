// Package songsterr is a small client for the public Songsterr endpoints
package songsterr

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	searchURL = "https://www.songsterr.com/api/search"
	metaURL   = "https://www.songsterr.com/api/meta"
	// trackURL is the CDN the per-track JSON is served from
	trackURL = "https://dqsljvtekg760.cloudfront.net"

	requestTimeout = 10 * time.Second
)

// Song is one search result record
type Song struct {
	SongID json.Number `json:"songId"`
	Title  string      `json:"title"`
	Artist string      `json:"artist"`
}

// Track is one track entry of a song's meta record
type Track struct {
	Name       string      `json:"name"`
	Instrument string      `json:"instrument"`
	Difficulty json.Number `json:"difficulty"`
	Hash       string      `json:"hash"`
}

// Meta is a song's meta record. Identification fields show up under several
// historical names, so the raw map is kept for lookups.
type Meta struct {
	Title      string      `json:"title"`
	RevisionID json.Number `json:"revisionId"`
	Image      string      `json:"image"`
	Tracks     []Track     `json:"tracks"`

	raw map[string]json.RawMessage
}

// Client calls the Songsterr API
type Client struct {
	httpClient *http.Client
	searchBase string
	metaBase   string
	trackBase  string
}

// New creates a client with the default endpoints and timeout
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		searchBase: searchURL,
		metaBase:   metaURL,
		trackBase:  trackURL,
	}
}

// NewWithBase creates a client pointed at alternative endpoints, used in tests
func NewWithBase(httpClient *http.Client, searchBase, metaBase, trackBase string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		httpClient: httpClient,
		searchBase: searchBase,
		metaBase:   metaBase,
		trackBase:  trackBase,
	}
}

// Search queries songs by name, optionally filtered to an instrument
// ("guitar", "bass", "drums", or "" for any)
func (c *Client) Search(pattern, instrument string) ([]Song, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("search pattern must not be empty")
	}

	params := url.Values{}
	params.Set("pattern", pattern)
	params.Set("tuning", "undefined")
	params.Set("difficulty", "undefined")
	params.Set("size", "50")
	params.Set("from", "0")
	params.Set("more", "true")
	if instrument != "" {
		params.Set("inst", instrument)
	}

	data, err := c.getJSON(c.searchBase + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	// The search endpoint answers either a bare list or {"records": [...]}
	var songs []Song
	if json.Unmarshal(data, &songs) == nil {
		return songs, nil
	}
	var wrapped struct {
		Records []Song `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected search response format: %w", err)
	}
	return wrapped.Records, nil
}

// Meta fetches a song's meta record, including its track list
func (c *Client) Meta(songID string) (*Meta, error) {
	songID = strings.TrimSpace(songID)
	if songID == "" {
		return nil, fmt.Errorf("song id must not be empty")
	}

	data, err := c.getJSON(c.metaBase + "/" + url.PathEscape(songID))
	if err != nil {
		return nil, err
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unexpected meta response format: %w", err)
	}
	if err := json.Unmarshal(data, &meta.raw); err != nil {
		return nil, fmt.Errorf("unexpected meta response format: %w", err)
	}
	return &meta, nil
}

// TrackJSON downloads the raw track payload for one track of a revision
func (c *Client) TrackJSON(songID, revisionID, image, trackID string) ([]byte, error) {
	for name, value := range map[string]string{
		"song id": songID, "revision id": revisionID, "image": image, "track id": trackID,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("missing %s for track JSON request", name)
		}
	}

	u := fmt.Sprintf("%s/%s/%s/%s/%s.json",
		c.trackBase,
		url.PathEscape(strings.TrimSpace(songID)),
		url.PathEscape(strings.TrimSpace(revisionID)),
		url.PathEscape(strings.TrimSpace(image)),
		url.PathEscape(strings.TrimSpace(trackID)))

	return c.getJSON(u)
}

// getJSON performs a GET and returns the decompressed response body
func (c *Client) getJSON(u string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w (url: %s)", err, u)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: HTTP %d %s (url: %s)", resp.StatusCode, http.StatusText(resp.StatusCode), u)
	}

	// Some responses arrive gzip-compressed regardless of headers
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Encoding")), "gzip") ||
		bytes.HasPrefix(body, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress response: %w", err)
		}
		defer func() { _ = gz.Close() }()
		body, err = io.ReadAll(gz)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress response: %w", err)
		}
	}

	return body, nil
}

// firstString scans the raw meta for the first present non-empty value
// among keys; values may be strings or {name|username} objects
func (m *Meta) firstString(keys ...string) string {
	for _, key := range keys {
		raw, ok := m.raw[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var obj struct {
			Name     string `json:"name"`
			Username string `json:"username"`
		}
		if json.Unmarshal(raw, &obj) == nil {
			if strings.TrimSpace(obj.Name) != "" {
				return strings.TrimSpace(obj.Name)
			}
			if strings.TrimSpace(obj.Username) != "" {
				return strings.TrimSpace(obj.Username)
			}
		}
	}
	return ""
}

// ArtistName resolves the artist display name
func (m *Meta) ArtistName() string {
	return m.firstString("artist")
}

// AuthorName resolves the tab author display name
func (m *Meta) AuthorName() string {
	return m.firstString("author", "tabAuthor", "composer", "username")
}

// EditorName resolves the last editor display name
func (m *Meta) EditorName() string {
	return m.firstString("editor", "editedBy", "editorName", "revisionAuthor", "username")
}

// Revision returns the revision id, falling back to track-level fields
func (m *Meta) Revision() string {
	if s := m.RevisionID.String(); s != "" && s != "0" {
		return s
	}
	return m.firstString("revision")
}

// ImageID returns the CDN image id used in track URLs
func (m *Meta) ImageID() string {
	if strings.TrimSpace(m.Image) != "" {
		return strings.TrimSpace(m.Image)
	}
	return m.firstString("imageId")
}

// EnrichTrackJSON injects the song title and credit fields from the meta
// record into a raw track payload, mirroring what the interactive flow
// shows before conversion. The track JSON alone often lacks them.
func (m *Meta) EnrichTrackJSON(trackJSON []byte) ([]byte, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(trackJSON, &payload); err != nil {
		return nil, fmt.Errorf("track JSON is not an object: %w", err)
	}

	set := func(key, value string) {
		if value == "" {
			return
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return
		}
		payload[key] = encoded
	}

	if title := strings.TrimSpace(m.Title); title != "" {
		set("songName", title)
		set("songTitle", title)
		set("title", title)
	}
	set("artist", m.ArtistName())
	set("author", m.AuthorName())
	set("editor", m.EditorName())

	return json.Marshal(payload)
}
