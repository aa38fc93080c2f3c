package runner

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"serv00_keepalive/internal/config"
	"serv00_keepalive/internal/logbus"
	"serv00_keepalive/internal/model"
	"serv00_keepalive/internal/notify"
	"serv00_keepalive/internal/panel"
	"serv00_keepalive/internal/store/sqlite"
)

type Options struct {
	Accounts  []config.AccountConfig
	Settings  config.SettingsConfig
	Bus       *logbus.Bus
	Store     *sqlite.Store // 可为 nil，表示不记录历史
	Notifiers []notify.Notifier
}

// Runner 按配置跑一轮账号检查。核心客户端本身是串行的，
// 并发与限速在这一层控制（默认 maxConcurrent=1，即逐个检查）。
type Runner struct {
	accounts  []config.AccountConfig
	settings  config.SettingsConfig
	bus       *logbus.Bus
	store     *sqlite.Store
	notifiers []notify.Notifier
	limiter   *rate.Limiter
}

func New(opts Options) *Runner {
	var limiter *rate.Limiter
	if opts.Settings.Limits.GlobalQPS > 0 {
		burst := opts.Settings.Limits.GlobalBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Settings.Limits.GlobalQPS), burst)
	}
	return &Runner{
		accounts:  opts.Accounts,
		settings:  opts.Settings,
		bus:       opts.Bus,
		store:     opts.Store,
		notifiers: opts.Notifiers,
		limiter:   limiter,
	}
}

func (r *Runner) Run(ctx context.Context) notify.RunSummary {
	runID := uuid.NewString()

	r.bus.Log("info", strings.Repeat("=", 50), nil)
	r.bus.Log("info", "开始检查 serv00 账号状态...", map[string]any{"runId": runID})
	r.bus.Log("info", strings.Repeat("=", 50), nil)

	maxConcurrent := r.settings.Limits.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := make(chan struct{}, maxConcurrent)
	results := make([]model.LoginResult, len(r.accounts))

	var wg sync.WaitGroup
	for i, acc := range r.accounts {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				break
			}
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, acc config.AccountConfig) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.checkAccount(ctx, runID, acc)
		}(i, acc)
	}
	wg.Wait()

	summary := summarize(runID, results)

	r.bus.Log("info", strings.Repeat("=", 50), nil)
	r.bus.Log("info", fmt.Sprintf("检查完成: %d 正常, %d 封禁, %d 失败",
		summary.Active, summary.Banned, summary.Failed), nil)
	r.bus.Log("info", strings.Repeat("=", 50), nil)

	for _, n := range r.notifiers {
		n.NotifyRunFinished(ctx, summary)
	}
	return summary
}

// checkAccount 检查单个账号。任何意外失败都隔离在本账号内，
// 落一条 unknown 结果，不影响其它账号的检查。
func (r *Runner) checkAccount(ctx context.Context, runID string, acc config.AccountConfig) (result model.LoginResult) {
	pid := panelID(acc.PanelURL)

	defer func() {
		if rec := recover(); rec != nil {
			result = model.LoginResult{
				Status:   model.StatusUnknown,
				Message:  fmt.Sprintf("检查账号时发生错误: %v", rec),
				PanelURL: acc.PanelURL,
				Username: acc.Username,
			}
			r.bus.Log("error", logbus.Failure(fmt.Sprintf("[%s] %s: %s", pid, acc.Username, result.Message)), nil)
		}
	}()

	r.bus.Log("info", fmt.Sprintf("[%s] 正在检查账号 %s...", pid, acc.Username), nil)

	client := panel.New(acc.PanelURL, panel.Options{
		Timeout:   r.settings.Timeout(),
		UserAgent: r.settings.UserAgent,
		Bus:       r.bus,
	})
	defer client.Close()

	result = client.Login(ctx, acc.Username, acc.Password, r.settings.Retries())
	r.logResult(pid, result)

	if result.Status == model.StatusBanned && acc.OnBanned != "" {
		notify.RunShellCommand(ctx, r.bus, acc.OnBanned)
	}

	if r.store != nil {
		_, err := r.store.RecordResult(ctx, model.CheckRecord{
			RunID:    runID,
			PanelURL: result.PanelURL,
			Username: result.Username,
			Status:   result.Status,
			Message:  result.Message,
			Details:  result.Details,
		})
		if err != nil {
			r.bus.Log("warn", "写入检查历史失败", map[string]any{"error": err.Error()})
		}
	}
	return result
}

func (r *Runner) logResult(pid string, res model.LoginResult) {
	msg := fmt.Sprintf("[%s] %s: %s", pid, res.Username, res.Message)
	if res.Details != "" {
		msg += " (" + res.Details + ")"
	}
	switch res.Status {
	case model.StatusActive:
		r.bus.Log("info", logbus.Success(msg), nil)
	case model.StatusBanned:
		r.bus.Log("warn", logbus.Failure(msg), nil)
	case model.StatusLoginFailed:
		r.bus.Log("warn", logbus.Warning(msg), nil)
	case model.StatusNetworkError:
		r.bus.Log("error", logbus.Failure(msg), nil)
	default:
		r.bus.Log("warn", logbus.Warning(msg), nil)
	}
}

func summarize(runID string, results []model.LoginResult) notify.RunSummary {
	summary := notify.RunSummary{RunID: runID, Results: results}
	for _, res := range results {
		switch res.Status {
		case model.StatusActive:
			summary.Active++
		case model.StatusBanned:
			summary.Banned++
		default:
			summary.Failed++
		}
	}
	return summary
}

// panelID 从面板 URL 提取编号用于日志显示，如 https://panel12.serv00.com -> panel12。
func panelID(panelURL string) string {
	u, err := url.Parse(panelURL)
	if err != nil || u.Host == "" {
		return panelURL
	}
	host := u.Host
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}
