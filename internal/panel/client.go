package panel

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"serv00_keepalive/internal/logbus"
	"serv00_keepalive/internal/model"
	"serv00_keepalive/internal/utils"
)

// csrfPattern 从登录页面里提取 Django 风格的 CSRF 隐藏字段。
var csrfPattern = regexp.MustCompile(`name="csrfmiddlewaretoken"\s+value="([^"]+)"`)

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Bus       *logbus.Bus
}

// Client 面板客户端，持有一个独立会话（cookie + 默认请求头）。
// 每个账号检查用一个实例，实例之间没有共享状态。
type Client struct {
	panelURL  string
	timeout   time.Duration
	userAgent string
	bus       *logbus.Bus
	http      *resty.Client
}

func New(panelURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		panelURL:  strings.TrimRight(panelURL, "/"),
		timeout:   timeout,
		userAgent: utils.NormalizeBrowserUserAgent(opts.UserAgent),
		bus:       opts.Bus,
	}
	c.http = c.newSession()
	return c
}

// newSession 构建一个全新的会话：新 cookie jar + 浏览器默认请求头。
func (c *Client) newSession() *resty.Client {
	jar, _ := cookiejar.New(nil)

	client := resty.New().
		SetCookieJar(jar).
		SetTimeout(c.timeout).
		SetHeaders(map[string]string{
			"User-Agent":      c.userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Connection":      "keep-alive",
		})

	if c.bus != nil {
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			c.bus.Log("debug", "http request", map[string]any{
				"method": req.Method,
				"url":    req.URL,
			})
			return nil
		})
	}
	return client
}

// resetSession 丢弃当前会话并重建。传输层出错后旧 cookie 可能掩盖真实响应，
// 所以重试前必须换干净的会话。
func (c *Client) resetSession() {
	c.http.GetClient().CloseIdleConnections()
	c.http = c.newSession()
}

func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// FetchToken 拉取登录页并提取 CSRF token。
// 传输层错误、非 2xx 响应、页面里找不到字段，都返回 ok=false，不向外抛错。
func (c *Client) FetchToken(ctx context.Context) (string, bool) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.panelURL + "/login/")
	if err != nil || !resp.IsSuccess() {
		return "", false
	}
	m := csrfPattern.FindStringSubmatch(resp.String())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Login 执行完整登录流程，最多尝试 retryCount 次。
// 传输层异常触发“换新会话再试”；拿不到 CSRF token 直接返回网络错误，不继续重试。
// 无论哪条路径，返回的都是 LoginResult，错误不会向调用方抛出。
func (c *Client) Login(ctx context.Context, username, password string, retryCount int) model.LoginResult {
	if retryCount <= 0 {
		retryCount = 1
	}

	var lastErr error
	for attempt := 0; attempt < retryCount; attempt++ {
		result, err := c.doLogin(ctx, username, password)
		if err == nil {
			return result
		}
		lastErr = err
		if c.bus != nil {
			c.bus.Log("warn", "登录请求失败，重建会话后重试", map[string]any{
				"panel":   c.panelURL,
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
		}
		c.resetSession()
	}

	details := ""
	if lastErr != nil {
		details = lastErr.Error()
	}
	return model.LoginResult{
		Status:   model.StatusNetworkError,
		Message:  fmt.Sprintf("网络错误 (重试 %d 次后失败)", retryCount),
		PanelURL: c.panelURL,
		Username: username,
		Details:  details,
	}
}

func (c *Client) doLogin(ctx context.Context, username, password string) (model.LoginResult, error) {
	token, ok := c.FetchToken(ctx)
	if !ok {
		return model.LoginResult{
			Status:   model.StatusNetworkError,
			Message:  "无法获取 CSRF token",
			PanelURL: c.panelURL,
			Username: username,
		}, nil
	}

	body, finalURL, err := c.submitLogin(ctx, username, password, token)
	if err != nil {
		return model.LoginResult{}, err
	}
	return Classify(body, finalURL, c.panelURL, username), nil
}

// submitLogin 提交登录表单，跟随重定向，返回最终页面内容和最终 URL。
func (c *Client) submitLogin(ctx context.Context, username, password, token string) (string, string, error) {
	loginURL := c.panelURL + "/login/"

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Referer", loginURL).
		SetHeader("Origin", c.panelURL).
		SetFormData(map[string]string{
			"csrfmiddlewaretoken": token,
			"username":            username,
			"password":            password,
			"next":                "/",
		}).
		Post(loginURL)
	if err != nil {
		return "", "", err
	}

	finalURL := loginURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	return resp.String(), finalURL, nil
}
