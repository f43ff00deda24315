package chart

import "sync"

// Canvas is the drawing surface of the trend chart. It holds either an SVG document
// or a placeholder text.
type Canvas struct {
	mu          sync.RWMutex
	svg         []byte
	placeholder string
	revision    uint64
}

// NewCanvas creates a blank canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Draw replaces the content with an SVG document and returns the new revision.
func (c *Canvas) Draw(svg []byte) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.svg = append([]byte(nil), svg...)
	c.placeholder = ""
	c.revision++

	return c.revision
}

// ShowPlaceholder replaces the content with text.
func (c *Canvas) ShowPlaceholder(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.svg = nil
	c.placeholder = text
	c.revision++
}

// ClearRevision blanks the canvas if it still shows the given revision.
func (c *Canvas) ClearRevision(revision uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.revision != revision {
		return
	}

	c.svg = nil
	c.revision++
}

// Content returns the SVG document (nil when none) and the placeholder text.
func (c *Canvas) Content() ([]byte, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]byte(nil), c.svg...), c.placeholder
}

// Revision changes whenever the content changes.
func (c *Canvas) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.revision
}
