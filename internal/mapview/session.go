package mapview

import (
	"errors"
	"sync"
)

// ErrSessionClosed is returned when rendering on a released map session.
var ErrSessionClosed = errors.New("map session closed")

// TokenSource supplies the current map access token.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// Token returns the token itself.
func (t StaticToken) Token() string { return string(t) }

type renderRequest struct {
	orders    []Placeable
	selected  Placeable
	showRoute bool
}

// Session is one mounted map widget. It is acquired when the widget mounts and
// must be released with Close when it unmounts. Renders issued before the
// widget reports it has loaded are held back; only the latest is applied once
// MarkLoaded is called.
type Session struct {
	mu       sync.Mutex
	renderer *Renderer
	canvas   Canvas
	tokens   TokenSource
	loaded   bool
	closed   bool
	pending  *renderRequest
	renders  int
}

// Acquire mounts a map session on canvas.
func Acquire(r *Renderer, canvas Canvas, tokens TokenSource) *Session {
	if tokens == nil {
		tokens = StaticToken("")
	}
	s := &Session{renderer: r, canvas: canvas, tokens: tokens}
	if tokens.Token() == "" {
		r.RenderPlaceholder(canvas)
	}
	return s
}

// Render draws orders, or records the request until the widget has loaded.
// It reports whether the canvas was updated.
func (s *Session) Render(orders []Placeable, selected Placeable, showRoute bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	req := &renderRequest{orders: orders, selected: selected, showRoute: showRoute}
	if !s.loaded {
		s.pending = req
		return false, nil
	}
	s.apply(req)
	return true, nil
}

// MarkLoaded is called on the widget's "loaded" event. Any pending render is
// applied. It reports whether the canvas was updated.
func (s *Session) MarkLoaded() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	s.loaded = true
	if s.pending == nil {
		return false, nil
	}
	req := s.pending
	s.pending = nil
	s.apply(req)
	return true, nil
}

func (s *Session) apply(req *renderRequest) {
	s.renders++
	if s.tokens.Token() == "" {
		s.renderer.RenderPlaceholder(s.canvas)
		return
	}
	s.renderer.Render(s.canvas, req.orders, req.selected, req.showRoute)
}

// Loaded reports whether the widget has loaded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Renders returns how many renders reached the canvas.
func (s *Session) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Close releases the session, removing every marker and the route. It is
// safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.pending = nil
	s.canvas.Clear()
}
