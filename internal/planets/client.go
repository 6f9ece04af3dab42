// Package planets provides a minimal client for the public planets.nu API.
package planets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pable/academystats/internal/model"
)

// DefaultBaseURL is the root endpoint of the planets.nu API.
const DefaultBaseURL = "http://api.planets.nu/"

// Academy listing parameters: game type 7, statuses Running, Finished and
// On Hold. Games in other states return incomplete data.
const (
	academyType     = "7"
	academyStatuses = "2,3,4"
)

// apiDateLayout is the timestamp format of games/list, e.g.
// "2/17/2017 4:43:38 AM".
const apiDateLayout = "1/2/2006 3:04:05 PM"

// Client is a minimal planets.nu API client. The API is public; no
// credentials are sent.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// gameSummary holds the fields we need from games/list.
type gameSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortdescription"`
	Status           int    `json:"status"`
	DateCreated      string `json:"datecreated"`
	DateEnded        string `json:"dateended"`
	Turn             int    `json:"turn"`
}

// get performs a GET against the API and JSON-decodes the body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// ListGames returns the Academy games currently listed by the API, in
// listing order. Early test games are skipped. Ids are normalized to
// GameID and dates converted to model.DateLayout. limit caps the number
// of games the API returns; 0 means no cap.
func (c *Client) ListGames(ctx context.Context, limit int) ([]model.Game, error) {
	params := url.Values{
		"type":   {academyType},
		"status": {academyStatuses},
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}

	var summaries []gameSummary
	if err := c.get(ctx, "games/list", params, &summaries); err != nil {
		return nil, err
	}

	games := make([]model.Game, 0, len(summaries))
	index := make(map[model.GameID]int, len(summaries))
	for _, s := range summaries {
		if strings.Contains(s.ShortDescription, "Test") {
			continue
		}
		g, err := s.toGame()
		if err != nil {
			return nil, err
		}
		// A repeated id replaces the earlier entry in place.
		if i, dup := index[g.ID]; dup {
			games[i] = g
			continue
		}
		index[g.ID] = len(games)
		games = append(games, g)
	}
	return games, nil
}

func (s gameSummary) toGame() (model.Game, error) {
	id := model.GameIDFromInt(s.ID)
	status, err := model.ParseGameStatus(s.Status)
	if err != nil {
		return model.Game{}, fmt.Errorf("game %s: %w", id, err)
	}
	created, err := convertDate(s.DateCreated)
	if err != nil {
		return model.Game{}, fmt.Errorf("game %s datecreated: %w", id, err)
	}
	ended, err := convertDate(s.DateEnded)
	if err != nil {
		return model.Game{}, fmt.Errorf("game %s dateended: %w", id, err)
	}
	return model.Game{
		ID:          id,
		Name:        s.Name,
		Status:      status,
		DateCreated: created,
		DateEnded:   ended,
		Turn:        s.Turn,
	}, nil
}

// convertDate rewrites an API timestamp into model.DateLayout. Empty
// input stays empty.
func convertDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(apiDateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(model.DateLayout), nil
}

// LoadEvents returns the raw event log of a game.
func (c *Client) LoadEvents(ctx context.Context, id model.GameID) ([]model.Event, error) {
	var resp struct {
		Events *[]model.Event `json:"events"`
	}
	if err := c.get(ctx, "game/loadevents", url.Values{"gameid": {string(id)}}, &resp); err != nil {
		return nil, err
	}
	if resp.Events == nil {
		return nil, fmt.Errorf("game/loadevents %s: response has no events", id)
	}
	return *resp.Events, nil
}

// LoadInfo returns the final per-slot player info of a game.
func (c *Client) LoadInfo(ctx context.Context, id model.GameID) ([]model.PlayerInfo, error) {
	var resp struct {
		Players *[]model.PlayerInfo `json:"players"`
	}
	if err := c.get(ctx, "game/loadinfo", url.Values{"gameid": {string(id)}}, &resp); err != nil {
		return nil, err
	}
	if resp.Players == nil {
		return nil, fmt.Errorf("game/loadinfo %s: response has no players", id)
	}
	return *resp.Players, nil
}
