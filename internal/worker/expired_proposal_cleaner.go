package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
)

// ProposalExpirer は期限切れ提案を辞退状態にするインターフェース
type ProposalExpirer interface {
	ExpireProposals(ctx context.Context) (int, error)
}

// ExpiredProposalCleaner は有効期限切れの提案をクリーンアップするワーカー
type ExpiredProposalCleaner struct {
	quoteService ProposalExpirer
	interval     time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewExpiredProposalCleaner は新しいクリーナーを作成
func NewExpiredProposalCleaner(qs ProposalExpirer, interval time.Duration) *ExpiredProposalCleaner {
	return &ExpiredProposalCleaner{
		quoteService: qs,
		interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はクリーナーを開始
func (c *ExpiredProposalCleaner) Start(ctx context.Context) {
	logger.Info("期限切れ提案クリーナー開始",
		zap.Duration("interval", c.interval),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ提案クリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("期限切れ提案クリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *ExpiredProposalCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// cleanup は期限切れ提案を辞退状態にする
func (c *ExpiredProposalCleaner) cleanup(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ提案のクリーンアップ開始")

	count, err := c.quoteService.ExpireProposals(ctx)
	if err != nil {
		log.Error("期限切れ提案のクリーンアップ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ提案を辞退状態に変更", zap.Int("count", count))
	} else {
		log.Debug("期限切れ提案なし")
	}
}
