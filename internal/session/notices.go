package session

import (
	"sync"
	"time"
)

// NoticeLevel classifies a transient notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeWarn  NoticeLevel = "warn"
	NoticeError NoticeLevel = "error"
)

// Notice is a short user-visible message, such as a failed lesson
// generation. Notices never affect State.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
	At    time.Time   `json:"at"`
}

// maxNotices bounds the board; older notices are dropped first.
const maxNotices = 20

// Board collects notices until a front end drains them.
type Board struct {
	mu      sync.Mutex
	notices []Notice
}

// Post adds a notice.
func (b *Board) Post(level NoticeLevel, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Level: level, Text: text, At: time.Now()})
	if len(b.notices) > maxNotices {
		b.notices = b.notices[len(b.notices)-maxNotices:]
	}
}

// Drain returns the pending notices, oldest first, and clears the board.
func (b *Board) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Len returns the number of pending notices.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}
