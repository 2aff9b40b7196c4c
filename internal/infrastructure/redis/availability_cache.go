package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// WindowSummary は出演者の空き枠サマリー
type WindowSummary struct {
	PerformerID   string  `json:"performer_id"`
	ActiveWindows int     `json:"active_windows"`
	OpenHours     float64 `json:"open_hours"`
	ConflictCount int     `json:"conflict_count"`
}

// AvailabilityCacheInterface は空き枠サマリーキャッシュのインターフェース
type AvailabilityCacheInterface interface {
	GetSummary(ctx context.Context, performerID string) (*WindowSummary, error)
	SetSummary(ctx context.Context, summary *WindowSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, performerID string) error
}

// AvailabilityCache は空き枠サマリーのキャッシュを管理する
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetSummary は出演者のサマリーをキャッシュから取得する
func (c *AvailabilityCache) GetSummary(ctx context.Context, performerID string) (*WindowSummary, error) {
	key := c.summaryKey(performerID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var summary WindowSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return &summary, nil
}

// SetSummary は出演者のサマリーをキャッシュに保存する
func (c *AvailabilityCache) SetSummary(ctx context.Context, summary *WindowSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	key := c.summaryKey(summary.PerformerID)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は出演者のサマリーキャッシュを無効化する
// 空き枠や予定が変わったタイミングで呼び出す
func (c *AvailabilityCache) Invalidate(ctx context.Context, performerID string) error {
	key := c.summaryKey(performerID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) summaryKey(performerID string) string {
	return fmt.Sprintf("availability:summary:%s", performerID)
}

var _ AvailabilityCacheInterface = (*AvailabilityCache)(nil)
