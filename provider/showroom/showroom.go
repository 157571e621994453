// Package showroom implements the built-in provider for the SHOWROOM live streaming service.
package showroom

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/livesan-cli/livesan/constant"
	"github.com/livesan-cli/livesan/internal/cache"
	"github.com/livesan-cli/livesan/key"
	"github.com/livesan-cli/livesan/log"
	"github.com/livesan-cli/livesan/network"
	"github.com/livesan-cli/livesan/source"
	"github.com/livesan-cli/livesan/util"
)

const (
	ID   = "showroom"
	Name = "SHOWROOM"

	baseURL = "https://www.showroom-live.com"

	// live_status value the API reports while a room is on air.
	liveStatusStreaming = 2

	playlistContentType = "application/x-mpegURL"
)

// The room page embeds its numeric room id inside an inline script tag.
var reRoomID = regexp.MustCompile(`share_url:"https:[^?]+\?room_id=(?P<room_id>\d+)"`)

// Showroom scrapes room pages and queries the public live API.
type Showroom struct {
	base   string
	client *http.Client
}

// New returns the SHOWROOM source.
func New() *Showroom {
	return &Showroom{
		base:   baseURL,
		client: network.Client,
	}
}

// Name returns the human-readable provider name.
func (s *Showroom) Name() string {
	return Name
}

// ID returns the canonical provider identifier.
func (s *Showroom) ID() string {
	return ID
}

// Search resolves a room key or room page URL to a channel. SHOWROOM pages
// are keyed by the performer's room slug, so a lookup yields at most one
// channel.
func (s *Showroom) Search(query string) ([]*source.Channel, error) {
	roomURL, roomKey, err := s.roomURL(query)
	if err != nil {
		return nil, err
	}

	roomID, err := s.roomID(roomURL, roomKey)
	if err != nil {
		return nil, err
	}
	if roomID == "" {
		return nil, nil
	}

	info, err := s.liveInfo(roomID)
	if err != nil {
		return nil, err
	}

	return []*source.Channel{{
		ID:     roomID,
		Name:   roomKey,
		URL:    roomURL,
		Title:  info.RoomName,
		Live:   info.LiveStatus == liveStatusStreaming,
		Source: s,
	}}, nil
}

// RenditionsOf queries the live API for the room's current streaming URL
// list, ordered best quality first. It is also the renewal path: tokens
// embedded in the returned URLs are freshly issued on every call.
func (s *Showroom) RenditionsOf(channel *source.Channel) ([]*source.Rendition, error) {
	info, err := s.liveInfo(channel.ID)
	if err != nil {
		return nil, err
	}
	if info.LiveStatus != liveStatusStreaming {
		return nil, source.Errorf("fetch renditions", "room %s is currently offline", channel.Name)
	}

	var payload struct {
		StreamingURLList []struct {
			Type    string `json:"type"`
			Quality int    `json:"quality"`
			URL     string `json:"url"`
		} `json:"streaming_url_list"`
	}
	if err := s.getJSON("/api/live/streaming_url", channel.ID, &payload); err != nil {
		return nil, err
	}
	if len(payload.StreamingURLList) == 0 {
		return nil, source.Errorf("fetch renditions", "room %s exposes no streams", channel.Name)
	}

	list := payload.StreamingURLList
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Quality > list[j].Quality
	})

	if err := s.checkPlayable(list[0].URL); err != nil {
		return nil, err
	}

	renditions := make([]*source.Rendition, 0, len(list))
	for i, item := range list {
		renditions = append(renditions, &source.Rendition{
			URL:     item.URL,
			Quality: fmt.Sprintf("%s_%d", item.Type, item.Quality),
			Bitrate: item.Quality,
			Kind:    item.Type,
			Index:   uint16(i),
		})
	}

	return renditions, nil
}

// roomURL normalizes a query into the room page URL and its room key. A bare
// key is resolved against the service origin; a full URL is taken as is.
func (s *Showroom) roomURL(query string) (string, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "", fmt.Errorf("empty room query")
	}

	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		u, err := url.Parse(query)
		if err != nil {
			return "", "", fmt.Errorf("parse room url: %w", err)
		}
		return query, strings.Trim(u.Path, "/"), nil
	}

	key := strings.Trim(query, "/")
	return s.base + "/" + key, key, nil
}

// roomID scrapes the numeric room id out of the room page. The mapping from
// room key to id is stable, so hits are cached across runs.
func (s *Showroom) roomID(roomURL, roomKey string) (string, error) {
	cacheKey := cache.GenerateKey(roomKey, ID)

	var roomID string
	if cache.Read(cacheKey, &roomID) {
		return roomID, nil
	}

	body, err := s.fetchPage(roomURL)
	if err != nil {
		return "", source.NewError("fetch room page", err)
	}

	roomID = util.ReGroups(reRoomID, body)["room_id"]
	if roomID == "" {
		// Page exists but carries no share_url script: not a room page.
		return "", nil
	}

	if err := cache.Write(cacheKey, roomID); err != nil {
		log.Warnf("cache room id for %s: %v", roomKey, err)
	}

	return roomID, nil
}

// fetchPage retrieves an HTML page body. Room pages sit behind an anti-bot
// CDN in some regions, so the browser-fingerprinted TLS client can be opted
// in through configuration.
func (s *Showroom) fetchPage(rawURL string) (string, error) {
	if viper.GetBool(key.NetworkTLSSpoof) {
		body, status, err := network.SpoofedGet(rawURL, nil)
		if err != nil {
			return "", err
		}
		if status != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d", status)
		}
		return body, nil
	}

	resp, err := s.get(rawURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type liveInfo struct {
	LiveStatus int    `json:"live_status"`
	RoomName   string `json:"room_name"`
}

func (s *Showroom) liveInfo(roomID string) (*liveInfo, error) {
	var info liveInfo
	if err := s.getJSON("/api/live/live_info", roomID, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// checkPlayable fetches the top rendition once and verifies the edge serves
// an actual playlist. Region-restricted rooms answer with an HTML error page
// instead.
func (s *Showroom) checkPlayable(streamURL string) error {
	resp, err := s.get(streamURL)
	if err != nil {
		return source.NewError("probe stream", err)
	}
	defer util.Ignore(resp.Body.Close)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.Header.Get("Content-Type") != playlistContentType {
		return source.Errorf("probe stream", "stream is restricted")
	}

	return nil
}

func (s *Showroom) getJSON(path, roomID string, target interface{}) error {
	endpoint := s.base + path + "?" + url.Values{"room_id": {roomID}}.Encode()

	resp, err := s.get(endpoint)
	if err != nil {
		return source.NewError("query live api", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return source.Errorf("query live api", "unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return source.NewError("read live api response", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("parse live api response: %w", err)
	}

	return nil
}

func (s *Showroom) get(rawURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	return s.client.Do(req)
}
