package notify

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"serv00_keepalive/internal/logbus"
)

const shellTimeout = 60 * time.Second

// RunShellCommand 执行账号被封禁时配置的自定义命令（onBanned）。
// 命令交给 sh -c 解释，限时 60 秒，返回是否执行成功。
func RunShellCommand(ctx context.Context, bus *logbus.Bus, command string) bool {
	if strings.TrimSpace(command) == "" {
		return false
	}

	cmdCtx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	bus.Log("info", "执行自定义命令", map[string]any{"command": command})

	cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()

	if cmdCtx.Err() == context.DeadlineExceeded {
		bus.Log("error", "命令执行超时", map[string]any{"command": command})
		return false
	}
	if err != nil {
		fields := map[string]any{"command": command, "error": err.Error()}
		if text := strings.TrimSpace(string(out)); text != "" {
			fields["output"] = text
		}
		bus.Log("warn", "命令返回非零状态", fields)
		return false
	}
	if text := strings.TrimSpace(string(out)); text != "" {
		bus.Log("debug", "命令输出", map[string]any{"output": text})
	}
	return true
}
