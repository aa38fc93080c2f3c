package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"serv00_keepalive/internal/config"
	"serv00_keepalive/internal/logbus"
	"serv00_keepalive/internal/model"
)

// EmailNotifier 在一轮检查出现封禁/失败账号时发送汇总邮件。
// 保活工具一次只跑一轮，这里直接同步发送，不做队列。
type EmailNotifier struct {
	cfg config.EmailConfig
	bus *logbus.Bus
}

func NewEmailNotifier(cfg config.EmailConfig, bus *logbus.Bus) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, bus: bus}
}

var emailTemplate = template.Must(template.New("summary").Parse(`
<h3>serv00 账号检查结果</h3>
<p>正常 {{.Active}} 个，封禁 {{.Banned}} 个，失败 {{.Failed}} 个。</p>
<table border="1" cellpadding="4" cellspacing="0">
	<tr><th>面板</th><th>账号</th><th>状态</th><th>说明</th></tr>
	{{range .Problems}}
	<tr>
		<td>{{.PanelURL}}</td>
		<td>{{.Username}}</td>
		<td>{{.Status}}</td>
		<td>{{.Message}}{{if .Details}} ({{.Details}}){{end}}</td>
	</tr>
	{{end}}
</table>
`))

type emailData struct {
	Active   int
	Banned   int
	Failed   int
	Problems []model.LoginResult
}

func (n *EmailNotifier) NotifyRunFinished(ctx context.Context, summary RunSummary) {
	if !n.cfg.Enabled || !summary.HasProblems() {
		return
	}

	data := emailData{
		Active: summary.Active,
		Banned: summary.Banned,
		Failed: summary.Failed,
	}
	for _, r := range summary.Results {
		if r.Status != model.StatusActive {
			data.Problems = append(data.Problems, r)
		}
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, data); err != nil {
		n.bus.Log("error", "渲染通知邮件失败", map[string]any{"error": err.Error()})
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", n.cfg.To...)
	msg.SetHeader("Subject", fmt.Sprintf("serv00 检查告警: %d 封禁, %d 失败", summary.Banned, summary.Failed))
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.From, n.cfg.Password)

	done := make(chan error, 1)
	go func() { done <- dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			n.bus.Log("error", "发送通知邮件失败", map[string]any{"error": err.Error()})
			return
		}
		n.bus.Log("info", "通知邮件已发送", map[string]any{"to": n.cfg.To})
	case <-ctx.Done():
		n.bus.Log("warn", "发送通知邮件被取消", nil)
	}
}
