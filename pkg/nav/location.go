package nav

import (
	"net/url"
	"sync"
)

// Location is the page address.
type Location interface {
	// URL returns a copy of the current URL.
	URL() *url.URL

	// Navigate loads u as a new page.
	Navigate(u *url.URL)
}

// MemoryLocation is a Location kept in memory. Navigate records the URL
// and calls the OnNavigate hook, if set.
type MemoryLocation struct {
	mu         sync.Mutex
	current    *url.URL
	history    []string
	onNavigate func(*url.URL)
}

// NewMemoryLocation returns a location at raw.
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{current: u}, nil
}

// OnNavigate sets a hook called after each navigation.
func (l *MemoryLocation) OnNavigate(fn func(*url.URL)) {
	l.mu.Lock()
	l.onNavigate = fn
	l.mu.Unlock()
}

// URL implements Location.
func (l *MemoryLocation) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := *l.current
	return &u
}

// Navigate implements Location.
func (l *MemoryLocation) Navigate(u *url.URL) {
	next := *u

	l.mu.Lock()
	l.current = &next
	l.history = append(l.history, next.String())
	hook := l.onNavigate
	l.mu.Unlock()

	if hook != nil {
		hook(&next)
	}
}

// History returns the URLs navigated to, oldest first.
func (l *MemoryLocation) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}
