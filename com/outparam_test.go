package com

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutParams_FreeEach(t *testing.T) {
	var freed []string
	p := NewOutParams(FreeEach)
	a := p.String("writer", func() { freed = append(freed, "writer") })
	b := p.String("instance", func() { freed = append(freed, "instance") })
	assert.Equal(t, 2, p.Live())

	a.Free()
	a.Free()
	assert.Equal(t, []string{"writer"}, freed)
	assert.Equal(t, "writer", a.String(), "value survives free")

	p.Free()
	assert.Equal(t, []string{"writer", "instance"}, freed)
	assert.Equal(t, "instance", b.String())
	assert.Zero(t, p.Live())
}

func TestOutParams_FreeShared(t *testing.T) {
	calls := 0
	p := NewOutParams(FreeShared)
	a := p.String("a", func() { calls++ })
	p.String("b", func() { calls += 100 })
	p.String("c", nil)

	a.Free()
	assert.Zero(t, calls, "shared block stays alive while members are live")

	p.Free()
	p.Free()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "shared", p.Policy().String())
}

func TestOutParams_FreeSharedSkipsNilCallback(t *testing.T) {
	var freed []string
	p := NewOutParams(FreeShared)
	p.String("borrowed", nil)
	p.String("block", func() { freed = append(freed, "block") })
	p.String("tail", func() { freed = append(freed, "tail") })

	p.Free()
	assert.Equal(t, []string{"block"}, freed, "first non-nil callback frees the group")
	assert.Zero(t, p.Live())
}
