// Package pref provides persisted user preferences.
//
// A Pref is a typed value bound to a key in a Store. Stores model the
// browser's key-value storage: string values addressed by string keys.
// String-kinded values are stored verbatim; anything else is stored as JSON.
//
// Example:
//
//	store := pref.NewFileStore("~/.config/pmweb/prefs.json")
//	theme := pref.New(store, "theme", "light")
//
//	current, found, err := theme.Load(ctx)
//	err = theme.Set(ctx, "dark")
package pref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// ErrNotFound is returned by a Store when the key has no value.
var ErrNotFound = errors.New("pref: not found")

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pref represents a persisted preference.
type Pref[T any] struct {
	store     Store
	key       string
	value     T
	defaults  T
	updatedAt time.Time

	mu sync.RWMutex
}

// New creates a preference with the given key and default value.
// The value starts at the default until Load or Set is called.
func New[T any](store Store, key string, defaultValue T) *Pref[T] {
	return &Pref[T]{
		store:    store,
		key:      key,
		value:    defaultValue,
		defaults: defaultValue,
	}
}

// Key returns the preference key.
func (p *Pref[T]) Key() string {
	return p.key
}

// Get returns the current in-memory value.
func (p *Pref[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// UpdatedAt returns when the value was last loaded or set. It is zero
// until then.
func (p *Pref[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Load reads the stored value. found is false when the store has no value
// for the key; the in-memory value is then left unchanged. A value that
// cannot be decoded is reported as an error.
func (p *Pref[T]) Load(ctx context.Context) (value T, found bool, err error) {
	if p.store == nil {
		return p.Get(), false, nil
	}

	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		return p.Get(), false, nil
	}
	if err != nil {
		return p.Get(), false, fmt.Errorf("pref: load %q: %w", p.key, err)
	}

	if err := decode(raw, &value); err != nil {
		return p.Get(), false, fmt.Errorf("pref: decode %q: %w", p.key, err)
	}

	p.mu.Lock()
	p.value = value
	p.updatedAt = time.Now()
	p.mu.Unlock()

	return value, true, nil
}

// Set updates the value and persists it. The in-memory value changes even
// when persisting fails.
func (p *Pref[T]) Set(ctx context.Context, value T) error {
	p.mu.Lock()
	p.value = value
	p.updatedAt = time.Now()
	p.mu.Unlock()

	if p.store == nil {
		return nil
	}

	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("pref: encode %q: %w", p.key, err)
	}
	if err := p.store.Set(ctx, p.key, raw); err != nil {
		return fmt.Errorf("pref: save %q: %w", p.key, err)
	}
	return nil
}

// Reset restores the default value and removes the stored one.
func (p *Pref[T]) Reset(ctx context.Context) error {
	p.mu.Lock()
	p.value = p.defaults
	p.updatedAt = time.Now()
	p.mu.Unlock()

	if p.store == nil {
		return nil
	}
	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("pref: reset %q: %w", p.key, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *Pref[T]) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return json.Marshal(struct {
		Key       string    `json:"key"`
		Value     T         `json:"value"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		Key:       p.key,
		Value:     p.value,
		UpdatedAt: p.updatedAt,
	})
}

func encode(value any) (string, error) {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode[T any](raw string, out *T) error {
	if rv := reflect.ValueOf(out).Elem(); rv.Kind() == reflect.String {
		rv.SetString(raw)
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
