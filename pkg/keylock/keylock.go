// Package keylock serializa escrituras por clave (id de artículo, id de inventario).
package keylock

import (
	"sort"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker mantiene un mutex por clave mientras haya interesados.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New construye un Locker vacío.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock bloquea todas las claves indicadas y devuelve la función de liberación.
// Las claves se ordenan y se deduplican para que dos llamadas con conjuntos solapados
// no se bloqueen mutuamente.
func (l *Locker) Lock(keys ...string) (unlock func()) {
	keys = normalize(keys)
	held := make([]*entry, 0, len(keys))
	for _, k := range keys {
		e := l.acquire(k)
		e.mu.Lock()
		held = append(held, e)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(keys[i])
			}
		})
	}
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Len devuelve el número de claves con interesados (útil en tests).
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
