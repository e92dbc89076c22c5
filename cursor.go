package gomorphtokenizer

import "sync"

// cursor is the per-document token stream. Segmentation has already
// run by the time a cursor exists; what remains is the pull protocol
// over the materialized tokens and releasing the worker claim exactly
// once, whether the stream is drained or abandoned mid-way.
type cursor struct {
	tokens  []Token
	index   int // -1 until the first Advance
	release func()
	once    sync.Once
}

func newCursor(tokens []Token, release func()) *cursor {
	return &cursor{
		tokens:  tokens,
		index:   -1,
		release: release,
	}
}

func (c *cursor) Advance() bool {
	if c.index+1 >= len(c.tokens) {
		c.index = len(c.tokens)
		c.releaseWorker()
		return false
	}
	c.index++
	return true
}

// Token panics unless the last Advance returned true, same as indexing
// past the end of a slice would.
func (c *cursor) Token() Token {
	if c.index < 0 || c.index >= len(c.tokens) {
		panic("gomorphtokenizer: Token called without a successful Advance")
	}
	return c.tokens[c.index]
}

func (c *cursor) Close() error {
	c.releaseWorker()
	return nil
}

func (c *cursor) releaseWorker() {
	c.once.Do(func() {
		if c.release != nil {
			c.release()
		}
	})
}
