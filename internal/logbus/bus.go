package logbus

import (
	"sync"
	"time"
)

type Message struct {
	Time   time.Time
	Level  string
	Msg    string
	Fields map[string]any
}

// Bus 日志扇出：检查流程只管往里写，控制台/文件等输出端各自订阅。
type Bus struct {
	mu     sync.Mutex
	subs   map[chan Message]struct{}
	closed bool
}

func New() *Bus {
	return &Bus{
		subs: make(map[chan Message]struct{}),
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

func (b *Bus) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Message, buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if b.subs != nil {
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Bus) Log(level, msg string, fields map[string]any) {
	m := Message{
		Time:   time.Now(),
		Level:  level,
		Msg:    msg,
		Fields: fields,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	for ch := range b.subs {
		select {
		case ch <- m:
		default:
		}
	}
	b.mu.Unlock()
}
