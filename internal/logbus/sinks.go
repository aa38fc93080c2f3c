package logbus

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// 控制台 + 文件双输出。文件里不要 ANSI 转义序列，写入前剥掉。

const (
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
	colorRed    = "\033[91m"
	colorBlue   = "\033[94m"
	colorReset  = "\033[0m"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func Success(msg string) string {
	return colorGreen + "✓" + colorReset + " " + msg
}

func Warning(msg string) string {
	return colorYellow + "⚠" + colorReset + " " + msg
}

func Failure(msg string) string {
	return colorRed + "✗" + colorReset + " " + msg
}

func Info(msg string) string {
	return colorBlue + "ℹ" + colorReset + " " + msg
}

func formatLine(m Message) string {
	var sb strings.Builder
	sb.WriteString(m.Time.Format("[2006-01-02 15:04:05]"))
	sb.WriteString(" [")
	sb.WriteString(strings.ToUpper(m.Level))
	sb.WriteString("] ")
	sb.WriteString(m.Msg)

	if len(m.Fields) > 0 {
		keys := make([]string, 0, len(m.Fields))
		for k := range m.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, m.Fields[k])
		}
	}
	return sb.String()
}

// AttachConsole 把日志写到 out（一般是 stdout）。verbose=false 时跳过 debug 级别。
// 返回的 stop 函数会等缓冲里的日志全部写完再返回。
func AttachConsole(b *Bus, out io.Writer, verbose bool) func() {
	return attach(b, func(m Message) {
		if m.Level == "debug" && !verbose {
			return
		}
		fmt.Fprintln(out, formatLine(m))
	})
}

// AttachFile 把所有级别的日志追加写入 path。
func AttachFile(b *Bus, path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	stop := attach(b, func(m Message) {
		fmt.Fprintln(f, ansiPattern.ReplaceAllString(formatLine(m), ""))
	})
	return func() {
		stop()
		_ = f.Close()
	}, nil
}

func attach(b *Bus, fn func(Message)) func() {
	ch, cancel := b.Subscribe(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range ch {
			fn(m)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
