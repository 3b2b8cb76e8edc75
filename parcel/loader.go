package parcel

import (
	"fmt"
	"reflect"
	"sync"
)

// Creator reconstructs a T from a parcel and allocates arrays of T
type Creator[T any] struct {
	CreateFromParcel func(in *Parcel) (T, error)
	NewArray         func(size int) []T
}

// Loader maps registered type names to creators. It is safe for
// concurrent use.
type Loader struct {
	mu       sync.RWMutex
	creators map[string]func(*Parcel) (any, error)
}

// DefaultLoader receives the registrations of generated code
var DefaultLoader = NewLoader()

// NewLoader returns an empty loader
func NewLoader() *Loader {
	return &Loader{creators: make(map[string]func(*Parcel) (any, error))}
}

// Register adds c to DefaultLoader
func Register[T Parcelable](c Creator[T]) {
	RegisterWith(DefaultLoader, c)
}

// RegisterWith adds c to l under the name of T, replacing any previous
// registration
func RegisterWith[T Parcelable](l *Loader, c Creator[T]) {
	name := TypeName(reflect.TypeOf((*T)(nil)).Elem())
	l.mu.Lock()
	defer l.mu.Unlock()
	l.creators[name] = func(in *Parcel) (any, error) {
		return c.CreateFromParcel(in)
	}
}

// Create builds the value registered under name from in
func (l *Loader) Create(name string, in *Parcel) (any, error) {
	l.mu.RLock()
	create, ok := l.creators[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	v, err := create(in)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return v, nil
}

// Registered reports whether name has a creator
func (l *Loader) Registered(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.creators[name]
	return ok
}
