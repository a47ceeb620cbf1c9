package modal

import "sync"

// Listeners is a key-listener registry. The application dispatches every
// key press through it before any other handling.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	byKey  map[string][]listener
}

type listener struct {
	id int
	fn func()
}

// NewListeners returns an empty registry.
func NewListeners() *Listeners {
	return &Listeners{byKey: make(map[string][]listener)}
}

// Listen registers fn for key. The returned func removes it and is safe
// to call more than once.
func (l *Listeners) Listen(key string, fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.byKey[key] = append(l.byKey[key], listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(key, id) })
	}
}

func (l *Listeners) remove(key string, id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ls := l.byKey[key]
	for i, x := range ls {
		if x.id == id {
			l.byKey[key] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(l.byKey[key]) == 0 {
		delete(l.byKey, key)
	}
}

// Dispatch calls the listeners registered for key, most recent first, and
// reports whether any were called. Listeners may unsubscribe while running.
func (l *Listeners) Dispatch(key string) bool {
	l.mu.Lock()
	ls := append([]listener(nil), l.byKey[key]...)
	l.mu.Unlock()

	for i := len(ls) - 1; i >= 0; i-- {
		ls[i].fn()
	}
	return len(ls) > 0
}

// Len returns the number of listeners registered for key.
func (l *Listeners) Len(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey[key])
}
