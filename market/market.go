package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/llm"
	"github.com/akihiro4321/favefit-sub001/logger"
)

// ErrCacheMiss is returned by a Cache that holds no entry for a key.
var ErrCacheMiss = errors.New("market cache miss")

// Cache stores the cheap ingredient list per calendar date.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, items []string, ttl time.Duration) error
}

// Chatter is the generative call the market lookup needs.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Service answers "which ingredients are cheap right now". A static list from
// configuration wins over everything; otherwise the cache is consulted and the
// model is asked on a miss.
type Service struct {
	static []string
	cache  Cache
	chat   Chatter
	ttl    time.Duration
}

func NewService(cfg entity.MarketConfig, cache Cache, chat Chatter) *Service {
	ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		static: cfg.CheapIngredients,
		cache:  cache,
		chat:   chat,
		ttl:    ttl,
	}
}

type cheapResponse struct {
	Ingredients []string `json:"ingredients"`
}

// CheapIngredients returns the cheap ingredient list for the month of date.
func (s *Service) CheapIngredients(ctx context.Context, date time.Time) ([]string, error) {
	if len(s.static) > 0 {
		return s.static, nil
	}

	key := "market:cheap:" + date.Format("2006-01")
	if s.cache != nil {
		items, err := s.cache.Get(ctx, key)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("Market cache read failed", "key", key, "error", err)
		}
	}

	if s.chat == nil {
		return nil, nil
	}

	raw, err := s.chat.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a Japanese grocery price assistant. Reply with JSON only."},
		{Role: "user", Content: fmt.Sprintf(
			"List up to 10 ingredients that are in season and cheap in Japanese supermarkets in %s. "+
				`Respond as {"ingredients": ["..."]}.`, date.Format("January"))},
	}, llm.Options{JSON: true, Temperature: 0.3, MaxTokens: 500})
	if err != nil {
		return nil, fmt.Errorf("cheap ingredient lookup: %w", err)
	}

	var resp cheapResponse
	err = llm.DecodeObject(raw, &resp, func() error {
		if len(resp.Ingredients) == 0 {
			return errors.New("empty ingredient list")
		}
		return nil
	})
	if err != nil {
		return nil, &entity.GenerationError{Stage: "market", Err: err}
	}

	items := make([]string, 0, len(resp.Ingredients))
	for _, item := range resp.Ingredients {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			logger.Warn("Market cache write failed", "key", key, "error", err)
		}
	}
	return items, nil
}
