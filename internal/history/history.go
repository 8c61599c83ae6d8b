// Package history keeps a bounded most-recent-first stack of buffer snapshots.
package history

import "github.com/MeKo-Tech/pixelcanvas/internal/canvas"

// DefaultMaxDepth is the number of snapshots kept by default.
const DefaultMaxDepth = 5

// Manager is a bounded undo stack. Entries are deep copies and never alias the
// live buffer.
type Manager struct {
	maxDepth int
	entries  []*canvas.Buffer // most recent first
}

// New creates a history bounded to maxDepth entries. Non-positive values
// select DefaultMaxDepth.
func New(maxDepth int) *Manager {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Manager{maxDepth: maxDepth}
}

// MaxDepth returns the configured bound.
func (m *Manager) MaxDepth() int { return m.maxDepth }

// Len returns the number of retained snapshots.
func (m *Manager) Len() int { return len(m.entries) }

// Snapshot pushes a copy of buf to the front, evicting the oldest entry when
// the bound is exceeded.
func (m *Manager) Snapshot(buf *canvas.Buffer) {
	if len(m.entries) >= m.maxDepth {
		m.entries[len(m.entries)-1] = nil
		m.entries = m.entries[:m.maxDepth-1]
	}
	m.entries = append(m.entries, nil)
	copy(m.entries[1:], m.entries)
	m.entries[0] = buf.Clone()
}

// Undo pops the most recent snapshot and makes buf equal to it, geometry
// included. It reports false, leaving buf untouched, when the history is empty.
func (m *Manager) Undo(buf *canvas.Buffer) bool {
	if len(m.entries) == 0 {
		return false
	}
	top := m.entries[0]
	copy(m.entries, m.entries[1:])
	m.entries[len(m.entries)-1] = nil
	m.entries = m.entries[:len(m.entries)-1]

	buf.Replace(top)
	return true
}

// Entries returns copies of the retained snapshots, most recent first.
func (m *Manager) Entries() []*canvas.Buffer {
	out := make([]*canvas.Buffer, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Clone()
	}
	return out
}

// Reset drops every snapshot.
func (m *Manager) Reset() {
	m.entries = nil
}
