// Package notify holds the human-readable status lines shown to the player.
//
// Entries stay visible for as long as they are in the log; there is no
// fade timer. Old lines leave only by being evicted.
package notify

const DefaultCapacity = 8

// Log is a bounded FIFO. It is owned by a single session goroutine and is
// not safe for concurrent use.
type Log struct {
	capacity int
	entries  []string
}

func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, entries: make([]string, 0, capacity)}
}

// Append adds msg, evicting the oldest entry first when the log is full.
func (l *Log) Append(msg string) {
	if len(l.entries) >= l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, msg)
}

// Entries returns a copy, oldest first.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Cap() int { return l.capacity }

// Visible reports whether the log should be shown at all.
func (l *Log) Visible() bool { return len(l.entries) > 0 }
