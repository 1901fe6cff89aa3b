package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var errSessionNotFound = errors.New("httpapi: wizard session not found")

type session struct {
	wizard  *wizard.Wizard
	created time.Time
}

// sessionTable holds live wizards by ID.
type sessionTable struct {
	mu     sync.RWMutex
	items  map[string]session
	opened func()
	closed func()
	now    func() time.Time
}

func newSessionTable(opened, closed func()) *sessionTable {
	return &sessionTable{
		items:  make(map[string]session),
		opened: opened,
		closed: closed,
		now:    time.Now,
	}
}

func (t *sessionTable) put(w *wizard.Wizard) {
	t.mu.Lock()
	t.items[w.ID()] = session{wizard: w, created: t.now()}
	t.mu.Unlock()
	t.opened()
}

func (t *sessionTable) get(id string) (*wizard.Wizard, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.items[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return s.wizard, nil
}

func (t *sessionTable) remove(id string) bool {
	t.mu.Lock()
	_, ok := t.items[id]
	delete(t.items, id)
	t.mu.Unlock()
	if ok {
		t.closed()
	}
	return ok
}

// expire drops sessions created before cutoff and returns how many went.
func (t *sessionTable) expire(cutoff time.Time) int {
	t.mu.Lock()
	var gone []string
	for id, s := range t.items {
		if s.created.Before(cutoff) {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		delete(t.items, id)
	}
	t.mu.Unlock()
	for range gone {
		t.closed()
	}
	return len(gone)
}

func (t *sessionTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}
