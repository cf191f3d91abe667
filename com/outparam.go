package com

import "sync"

// FreePolicy decides how the out-parameters of one call are freed.
type FreePolicy uint8

const (
	// FreeEach gives every out-parameter its own allocation and callback.
	FreeEach FreePolicy = iota
	// FreeShared treats the group as one allocation. The first non-nil
	// callback registered with the group frees it once every member has
	// been freed.
	FreeShared
)

func (p FreePolicy) String() string {
	switch p {
	case FreeEach:
		return "each"
	case FreeShared:
		return "shared"
	default:
		return "unknown"
	}
}

// OutParams collects foreign-allocated out-parameters returned together by
// one call, such as the strings of a property record.
type OutParams struct {
	mu      sync.Mutex
	members []*OwnedString
	free    func()
	live    int
	policy  FreePolicy
}

// NewOutParams creates an empty group.
func NewOutParams(policy FreePolicy) *OutParams {
	return &OutParams{policy: policy}
}

// Policy returns the group's free policy.
func (p *OutParams) Policy() FreePolicy {
	return p.policy
}

// String registers a foreign string. free releases its storage and may be
// nil for storage owned elsewhere.
func (p *OutParams) String(value string, free func()) *OwnedString {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &OwnedString{value: value, group: p, free: free}
	p.members = append(p.members, s)
	p.live++
	if p.policy == FreeShared && p.free == nil {
		p.free = free
	}
	return s
}

// Free frees every member that has not been freed yet.
func (p *OutParams) Free() {
	p.mu.Lock()
	members := append([]*OwnedString(nil), p.members...)
	p.mu.Unlock()

	for _, s := range members {
		s.Free()
	}
}

// Live returns the number of members not yet freed.
func (p *OutParams) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

func (p *OutParams) release(s *OwnedString) {
	p.mu.Lock()
	p.live--
	var run func()
	switch p.policy {
	case FreeShared:
		if p.live == 0 {
			run, p.free = p.free, nil
		}
	default:
		run = s.free
	}
	p.mu.Unlock()

	if run != nil {
		run()
	}
}

// OwnedString is a string copied out of foreign memory together with the
// obligation to free that memory.
type OwnedString struct {
	group *OutParams
	free  func()
	value string
	once  sync.Once
}

// String returns the copied value. It stays valid after Free.
func (s *OwnedString) String() string {
	return s.value
}

// Free releases the foreign storage. Only the first call has an effect.
func (s *OwnedString) Free() {
	s.once.Do(func() {
		s.group.release(s)
	})
}
