package scheduler

import (
	"github.com/yorkie01/restaurant-order-system/internal/kitchen"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BoardScheduler キッチンボードの日次リセットスケジューラー
type BoardScheduler struct {
	cron  *cron.Cron
	board *kitchen.Board
}

// NewBoardScheduler ボードスケジューラー生成
func NewBoardScheduler(board *kitchen.Board) *BoardScheduler {
	return &BoardScheduler{
		cron:  cron.New(),
		board: board,
	}
}

// Start スケジューラー開始
func (s *BoardScheduler) Start() error {
	// 毎日深夜 0 時にボードを再読み込みして前日の注文を落とす
	// cron 式: "0 0 * * *" = 毎日 0 時 0 分
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		logger.Info("Starting scheduled kitchen board rollover", nil)

		if err := s.board.Reload(); err != nil {
			logger.Error("Failed to roll over kitchen board", err)
			return
		}

		logger.Info("Kitchen board rolled over to new day", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for board rollover", err)
		return err
	}

	s.cron.Start()
	logger.Info("Board scheduler started successfully (daily at midnight)", nil)

	return nil
}

// Stop スケジューラー停止
func (s *BoardScheduler) Stop() {
	logger.Info("Stopping board scheduler...", nil)
	s.cron.Stop()
	logger.Info("Board scheduler stopped", nil)
}
