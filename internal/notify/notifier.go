package notify

import (
	"context"

	"serv00_keepalive/internal/model"
)

// RunSummary 一轮检查结束后的汇总。
type RunSummary struct {
	RunID   string
	Results []model.LoginResult
	Active  int
	Banned  int
	Failed  int
}

func (s RunSummary) HasProblems() bool {
	return s.Banned > 0 || s.Failed > 0
}

type Notifier interface {
	NotifyRunFinished(ctx context.Context, summary RunSummary)
}
