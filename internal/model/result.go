package model

import "time"

type AccountStatus string

const (
	StatusActive       AccountStatus = "active"
	StatusBanned       AccountStatus = "banned"
	StatusLoginFailed  AccountStatus = "login_failed"
	StatusNetworkError AccountStatus = "network_error"
	StatusUnknown      AccountStatus = "unknown"
)

// LoginResult 单次账号检查的结果，创建后不再修改。
type LoginResult struct {
	Status   AccountStatus `json:"status"`
	Message  string        `json:"message"`
	PanelURL string        `json:"panelUrl"`
	Username string        `json:"username"`
	Details  string        `json:"details,omitempty"`
}

// CheckRecord 持久化到 sqlite 的检查历史记录。
type CheckRecord struct {
	ID        string        `json:"id"`
	RunID     string        `json:"runId"`
	PanelURL  string        `json:"panelUrl"`
	Username  string        `json:"username"`
	Status    AccountStatus `json:"status"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}
