package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Accounts []AccountConfig `yaml:"accounts"`
	Settings SettingsConfig  `yaml:"settings"`
	Storage  StorageConfig   `yaml:"storage"`
	Notify   NotifyConfig    `yaml:"notify"`
}

type AccountConfig struct {
	PanelURL string `yaml:"panelUrl"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// OnBanned 账号被封禁时执行的自定义 shell 命令（可选）。
	OnBanned string `yaml:"onBanned"`
}

type SettingsConfig struct {
	TimeoutSeconds int          `yaml:"timeoutSeconds"`
	RetryCount     int          `yaml:"retryCount"`
	// UserAgent 覆盖默认的浏览器 UA（可选，必须像正常浏览器 UA 才会生效）。
	UserAgent      string       `yaml:"userAgent"`
	LogFile        string       `yaml:"logFile"`
	Limits         LimitsConfig `yaml:"limits"`
}

type LimitsConfig struct {
	// MaxConcurrent 同时检查多少个账号。默认 1，保持逐个串行检查。
	MaxConcurrent int `yaml:"maxConcurrent"`
	// GlobalQPS 对所有面板发起检查的全局速率上限，0 表示不限制。
	GlobalQPS   float64 `yaml:"globalQPS"`
	GlobalBurst int     `yaml:"globalBurst"`
}

type StorageConfig struct {
	// SQLitePath 检查历史数据库路径，留空则不记录历史。
	SQLitePath string `yaml:"sqlitePath"`
}

type NotifyConfig struct {
	Email EmailConfig `yaml:"email"`
}

type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	SMTPHost string   `yaml:"smtpHost"`
	SMTPPort int      `yaml:"smtpPort"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Password string   `yaml:"password"`
}

func (c SettingsConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SettingsConfig) Retries() int {
	if c.RetryCount <= 0 {
		return 3
	}
	return c.RetryCount
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.Limits.MaxConcurrent <= 0 {
		c.Settings.Limits.MaxConcurrent = 1
	}
	if c.Settings.Limits.GlobalBurst <= 0 {
		c.Settings.Limits.GlobalBurst = 1
	}
	if c.Settings.LogFile == "" {
		c.Settings.LogFile = "serv00.log"
	}
	if c.Notify.Email.SMTPPort <= 0 {
		c.Notify.Email.SMTPPort = 465
	}
	for i := range c.Accounts {
		c.Accounts[i].PanelURL = strings.TrimRight(strings.TrimSpace(c.Accounts[i].PanelURL), "/")
	}
}

func (c Config) validate() error {
	if len(c.Accounts) == 0 {
		return errors.New("配置文件中没有定义账号")
	}
	for i, acc := range c.Accounts {
		if acc.PanelURL == "" {
			return fmt.Errorf("accounts[%d].panelUrl is required", i)
		}
		if acc.Username == "" {
			return fmt.Errorf("accounts[%d].username is required", i)
		}
		if acc.Password == "" {
			return fmt.Errorf("accounts[%d].password is required", i)
		}
	}
	if c.Notify.Email.Enabled {
		if c.Notify.Email.SMTPHost == "" {
			return errors.New("notify.email.smtpHost is required when email is enabled")
		}
		if c.Notify.Email.From == "" || len(c.Notify.Email.To) == 0 {
			return errors.New("notify.email.from and notify.email.to are required when email is enabled")
		}
	}
	return nil
}
