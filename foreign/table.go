package foreign

import (
	"sync"

	"github.com/wippyai/comsafe/com"
)

// table maps handles to interface pointers. Freed handles are reused.
type table struct {
	index    map[com.Unknown]Handle
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
}

type entry struct {
	value com.Unknown
	valid bool
}

func newTable() *table {
	return &table{
		index:    make(map[com.Unknown]Handle),
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// insert returns the handle for value, allocating one on first sight.
// Interface pointers must be comparable.
func (t *table) insert(value com.Unknown) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.index[value]; ok {
		return h
	}

	e := entry{value: value, valid: true}

	var handle Handle
	if len(t.freeList) > 0 {
		handle = t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[handle-1] = e
	} else {
		t.entries = append(t.entries, e)
		handle = Handle(len(t.entries))
	}
	t.index[value] = handle
	return handle
}

func (t *table) get(handle Handle) (com.Unknown, bool) {
	if handle == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

func (t *table) remove(handle Handle) (com.Unknown, bool) {
	if handle == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := &t.entries[idx]
	if !e.valid {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	delete(t.index, value)
	t.freeList = append(t.freeList, handle)
	return value, true
}

// removeWhere drops every handle whose pointer matches fn.
func (t *table) removeWhere(fn func(com.Unknown) bool) {
	var handles []Handle
	t.mu.RLock()
	for i, e := range t.entries {
		if e.valid && fn(e.value) {
			handles = append(handles, Handle(i+1))
		}
	}
	t.mu.RUnlock()

	for _, h := range handles {
		t.remove(h)
	}
}

func (t *table) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.index)
}

func (t *table) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = t.entries[:0]
	t.freeList = t.freeList[:0]
	clear(t.index)
}
