package pubg

import (
	"context"
	"errors"

	"github.com/pubgscore/tournament-service/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrUpstream      = errors.New("pubg api request failed")
)

// DefaultShard — платформенный шард по умолчанию.
const DefaultShard = "pc-eu"

// MatchSource — источник матчей. Реализации: клиент PUBG API и
// мок-генератор для работы без ключа.
//
// FetchPlayerMatchIDs возвращает пустой список, а не ошибку, если матчи
// игрока не найдены.
type MatchSource interface {
	FetchMatch(ctx context.Context, matchID, shard string) (*models.MatchRecord, error)
	FetchPlayerMatchIDs(ctx context.Context, playerName, shard string) ([]string, error)
	FetchMatches(ctx context.Context, matchIDs []string, shard string) ([]*models.MatchRecord, error)
}
