package panel

import (
	"regexp"
	"strings"

	"serv00_keepalive/internal/model"
)

// 状态判定的关键词，按优先级排列：封禁 > 登录成功 > 仍在登录页。
// 封禁页上也可能出现别的关键词，所以顺序不能乱。
var (
	bannedKeywords    = []string{"Konto zablokowane", "Account blocked", "blocked"}
	successKeywords   = []string{"Strona główna", "Zalogowany jako", "Dashboard"}
	loginPageKeywords = []string{"Zaloguj się", "Login", "Sign in"}
)

var (
	// 常见格式: "Konto zablokowane: TOS"
	banReasonPattern = regexp.MustCompile(`Konto zablokowane[:\s]*([^<\n]+)`)
	// 格式: "Konto ważne do: 2 stycznia 2036"
	validityPattern = regexp.MustCompile(`Konto ważne do[:\s]*([^<\n]+)`)
	// 登录失败时页面上的 alert 提示
	alertPattern = regexp.MustCompile(`class="[^"]*alert[^"]*"[^>]*>([^<]+)`)
)

// Classify 把登录后的最终页面映射为账号状态。
// 纯函数：只看页面内容和最终 URL，同样的输入永远得到同样的结果。
func Classify(body, finalURL, panelURL, username string) model.LoginResult {
	if containsAny(body, bannedKeywords) {
		return model.LoginResult{
			Status:   model.StatusBanned,
			Message:  "账号已被封禁",
			PanelURL: panelURL,
			Username: username,
			Details:  extractBanReason(body),
		}
	}

	if containsAny(body, successKeywords) {
		return model.LoginResult{
			Status:   model.StatusActive,
			Message:  "账号正常",
			PanelURL: panelURL,
			Username: username,
			Details:  extractValidity(body),
		}
	}

	// 仍然停在登录页 = 凭据被拒绝
	if containsAny(body, loginPageKeywords) {
		details := extractAlert(body)
		if details == "" {
			details = "用户名或密码错误"
		}
		return model.LoginResult{
			Status:   model.StatusLoginFailed,
			Message:  "登录失败",
			PanelURL: panelURL,
			Username: username,
			Details:  details,
		}
	}

	return model.LoginResult{
		Status:   model.StatusUnknown,
		Message:  "无法判断账号状态",
		PanelURL: panelURL,
		Username: username,
		Details:  "响应 URL: " + finalURL,
	}
}

func containsAny(body string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

func extractBanReason(body string) string {
	if m := banReasonPattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "TOS 违规"
}

func extractValidity(body string) string {
	if m := validityPattern.FindStringSubmatch(body); m != nil {
		return "有效期至: " + strings.TrimSpace(m[1])
	}
	return ""
}

func extractAlert(body string) string {
	if m := alertPattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
