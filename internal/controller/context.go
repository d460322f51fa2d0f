package controller

import (
	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/vision"
)

// Context is a lazy view over the current tick's screenshot, bound to
// exactly one Scene. Strategy hooks read per-scene data through a Context
// rather than touching Device/Vision directly, so repeated accessors within
// one tick are cheap (spec.md §4.4, §9): each accessor memoizes its result
// in cache for the Context's lifetime, which is exactly one tick.
type Context struct {
	Shot    vision.Screenshot
	Scene   scene.Scene
	Vision  vision.Vision
	Device  vision.Device
	Session *Session

	cache map[string]any
}

// NewContext builds a Context valid for exactly one tick.
func NewContext(shot vision.Screenshot, sc scene.Scene, v vision.Vision, dev vision.Device, sess *Session) *Context {
	return &Context{Shot: shot, Scene: sc, Vision: v, Device: dev, Session: sess, cache: make(map[string]any)}
}

// Memo returns the cached value for key, computing and storing it via
// compute on first access. The zero value of T is never stored as "present"
// unless compute actually returns it, so a expensive-but-legitimately-empty
// result (e.g. no buttons found) is still cached rather than recomputed.
func Memo[T any](c *Context, key string, compute func() T) T {
	if v, ok := c.cache[key]; ok {
		return v.(T)
	}
	v := compute()
	c.cache[key] = v
	return v
}
