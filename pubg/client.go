package pubg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pubgscore/tournament-service/models"
)

const (
	apiBase = "https://api.pubg.com/shards"

	// Сколько последних матчей игрока запрашивается при поиске.
	playerMatchLimit = 10
	// Ограничение на параллельные запросы деталей матчей.
	fetchConcurrency = 4
)

// apiClient — клиент PUBG API (JSON:API диалект).
type apiClient struct {
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
}

// NewClient возвращает источник матчей: клиент реального API при наличии
// ключа, иначе мок-генератор. Граница подмены здесь, чтобы вызывающему коду
// не приходилось различать режимы.
func NewClient(apiKey string, logger *slog.Logger) MatchSource {
	if apiKey == "" {
		logger.Info("pubg api key is not configured, using mock match source")
		return NewMockSource()
	}
	return &apiClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (c *apiClient) FetchMatch(ctx context.Context, matchID, shard string) (*models.MatchRecord, error) {
	if shard == "" {
		shard = DefaultShard
	}
	endpoint := fmt.Sprintf("%s/%s/matches/%s", apiBase, shard, url.PathEscape(matchID))

	var payload matchResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return parseMatch(&payload), nil
}

func (c *apiClient) FetchPlayerMatchIDs(ctx context.Context, playerName, shard string) ([]string, error) {
	if shard == "" {
		shard = DefaultShard
	}
	endpoint := fmt.Sprintf("%s/%s/players?filter[playerNames]=%s", apiBase, shard, url.QueryEscape(playerName))

	var payload playersResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return []string{}, nil
	}

	refs := payload.Data[0].Relationships.Matches.Data
	ids := make([]string, 0, playerMatchLimit)
	for _, ref := range refs {
		ids = append(ids, ref.ID)
		if len(ids) == playerMatchLimit {
			break
		}
	}
	return ids, nil
}

// FetchMatches грузит детали матчей параллельно с ограничением. Отказ по
// одному матчу не роняет весь набор: такой матч пропускается с записью в лог.
func (c *apiClient) FetchMatches(ctx context.Context, matchIDs []string, shard string) ([]*models.MatchRecord, error) {
	results := make([]*models.MatchRecord, len(matchIDs))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, matchID := range matchIDs {
		i, matchID := i, matchID
		g.Go(func() error {
			match, err := c.FetchMatch(gCtx, matchID, shard)
			if err != nil {
				c.logger.Warn("failed to fetch match details, skipping",
					slog.String("match_id", matchID), slog.Any("error", err))
				return nil
			}
			mu.Lock()
			results[i] = match
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]*models.MatchRecord, 0, len(results))
	for _, m := range results {
		if m != nil {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (c *apiClient) getJSON(ctx context.Context, endpoint string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build pubg api request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrMatchNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrUpstream, err)
	}
	return nil
}

// Формы ответов PUBG API: разбирается только то, что нужно MatchRecord.

type matchResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			GameMode string    `json:"gameMode"`
			PlayedAt time.Time `json:"playedAt"`
			Duration int       `json:"duration"`
			MapName  string    `json:"mapName"`
		} `json:"attributes"`
	} `json:"data"`
	Included []includedItem `json:"included"`
}

type includedItem struct {
	Type       string `json:"type"`
	Attributes struct {
		Stats participantStats `json:"stats"`
	} `json:"attributes"`
}

type participantStats struct {
	Name         string  `json:"name"`
	PlayerID     string  `json:"playerId"`
	Kills        int     `json:"kills"`
	DamageDealt  float64 `json:"damageDealt"`
	WinPlace     int     `json:"winPlace"`
	TimeSurvived float64 `json:"timeSurvived"`
	WalkDistance float64 `json:"walkDistance"`
	RideDistance float64 `json:"rideDistance"`
	SwimDistance float64 `json:"swimDistance"`
}

type playersResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Relationships struct {
			Matches struct {
				Data []struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"matches"`
		} `json:"relationships"`
	} `json:"data"`
}

func parseMatch(resp *matchResponse) *models.MatchRecord {
	match := &models.MatchRecord{
		ID:       resp.Data.ID,
		GameMode: resp.Data.Attributes.GameMode,
		PlayedAt: resp.Data.Attributes.PlayedAt,
		Duration: resp.Data.Attributes.Duration,
		MapName:  resp.Data.Attributes.MapName,
	}

	for _, item := range resp.Included {
		if item.Type != "participant" {
			continue
		}
		stats := item.Attributes.Stats
		match.Participants = append(match.Participants, models.Participant{
			Name:     stats.Name,
			PlayerID: stats.PlayerID,
			Stats: models.ParticipantStats{
				Kills:        stats.Kills,
				Damage:       math.Round(stats.DamageDealt),
				Placement:    stats.WinPlace,
				SurvivalTime: int(math.Round(stats.TimeSurvived)),
				WalkDistance: math.Round(stats.WalkDistance),
				RideDistance: math.Round(stats.RideDistance),
				SwimDistance: math.Round(stats.SwimDistance),
			},
		})
	}

	sort.SliceStable(match.Participants, func(i, j int) bool {
		return match.Participants[i].Stats.Placement < match.Participants[j].Stats.Placement
	})
	return match
}
