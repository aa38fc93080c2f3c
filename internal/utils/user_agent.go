package utils

import "strings"

const defaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultBrowserUserAgent 返回默认的桌面浏览器 UA。
// 面板会拒绝太离谱的 UA，所以统一模拟常见的 Chrome。
func DefaultBrowserUserAgent() string {
	return defaultBrowserUserAgent
}

// NormalizeBrowserUserAgent 把 UA 规范为“桌面浏览器”风格；
// 入参为空或不像浏览器 UA 时，返回默认 UA。
func NormalizeBrowserUserAgent(ua string) string {
	v := strings.TrimSpace(ua)
	if v == "" {
		return defaultBrowserUserAgent
	}
	if looksLikeBrowserUA(v) {
		return v
	}
	return defaultBrowserUserAgent
}

func looksLikeBrowserUA(ua string) bool {
	s := strings.ToLower(ua)
	if !strings.Contains(s, "mozilla/") {
		return false
	}
	if strings.Contains(s, "chrome") || strings.Contains(s, "firefox") || strings.Contains(s, "safari") || strings.Contains(s, "edg") {
		return true
	}
	return false
}
