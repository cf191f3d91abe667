package com

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/hresult"
)

func TestAdopt_NilPanics(t *testing.T) {
	err := catchPanic(func() { Adopt(IGreeter, nil) })
	require.NotNil(t, err)
	assert.Equal(t, errors.KindNullPointer, err.Kind)
	assert.Equal(t, errors.PhaseAdopt, err.Phase)
	assert.Equal(t, "IGreeter", err.Capability)

	var typedNil *fakeObject
	err = catchPanic(func() { Adopt(IGreeter, typedNil) })
	require.NotNil(t, err)
	assert.Equal(t, errors.KindNullPointer, err.Kind)
}

func TestAdopt_WrongSurfacePanics(t *testing.T) {
	err := catchPanic(func() { Adopt(ICounter, newFake()) })
	require.NotNil(t, err)
	assert.Equal(t, errors.KindContractViolation, err.Kind)
}

func TestAdopt_DoesNotAddRef(t *testing.T) {
	f := newFake()
	r := Adopt(IGreeter, f)

	_, addRefs, releases, _ := f.counts()
	assert.Zero(t, addRefs)
	assert.Zero(t, releases)
	assert.Equal(t, uint64(1), r.RefCount())
	assert.Equal(t, "hello bob", r.Get().Greet("bob"))

	r.Release()
	refs, _, releases, _ := f.counts()
	assert.Equal(t, 1, releases)
	assert.Zero(t, refs)
}

func TestRelease_ExactlyOnce(t *testing.T) {
	f := newFake()
	r := Adopt(IGreeter, f)

	r.Release()
	r.Release()
	r.Release()

	_, _, releases, _ := f.counts()
	assert.Equal(t, 1, releases)
	assert.True(t, r.Released())
}

func TestClone_SharesLineage(t *testing.T) {
	f := newFake()
	a := Adopt(IGreeter, f)
	b := a.Clone()

	refs, addRefs, _, _ := f.counts()
	assert.Equal(t, 1, addRefs)
	assert.Equal(t, uint32(2), refs)
	assert.Equal(t, uint64(2), a.RefCount())
	assert.Equal(t, uint64(2), b.RefCount())

	c := b.Clone()
	assert.Equal(t, uint64(3), a.RefCount())

	a.Release()
	assert.Equal(t, uint64(2), c.RefCount())
	assert.Equal(t, "hello x", c.Get().Greet("x"))

	b.Release()
	c.Release()
	refs, addRefs, releases, _ := f.counts()
	assert.Equal(t, 2, addRefs)
	assert.Equal(t, 3, releases)
	assert.Zero(t, refs)
}

func TestClone_OverflowBeforeAddRef(t *testing.T) {
	f := newFake()
	r := Adopt(IGreeter, f)
	r.sharedLineage().count.Store(maxRefs)

	err := catchPanic(func() { r.Clone() })
	require.NotNil(t, err)
	assert.Equal(t, errors.KindOverflow, err.Kind)
	assert.Equal(t, errors.PhaseClone, err.Phase)
	assert.Equal(t, uint64(maxRefs), err.Value)

	_, addRefs, _, _ := f.counts()
	assert.Zero(t, addRefs, "no foreign add-ref once the counter is saturated")
	assert.Equal(t, uint64(maxRefs), r.RefCount())
}

func TestClone_JustBelowLimit(t *testing.T) {
	f := newFake()
	r := Adopt(IGreeter, f)
	r.sharedLineage().count.Store(maxRefs - 1)

	c := r.Clone()
	assert.Equal(t, uint64(maxRefs), c.RefCount())
	c.Release()
	assert.Equal(t, uint64(maxRefs-1), r.RefCount())
}

func TestUseAfterRelease(t *testing.T) {
	r := Adopt(IGreeter, newFake())
	r.Release()

	for name, fn := range map[string]func(){
		"get":   func() { r.Get() },
		"clone": func() { r.Clone() },
		"view":  func() { r.View() },
		"query": func() { Query(r, IGreeter) },
		"raw":   func() { r.Raw() },
	} {
		t.Run(name, func(t *testing.T) {
			err := catchPanic(fn)
			require.NotNil(t, err)
			assert.Equal(t, errors.KindUseAfterRelease, err.Kind)
		})
	}
}

func TestAdoptOut(t *testing.T) {
	f := newFake()
	r, err := AdoptOut(IGreeter, f, hresult.S_OK)
	require.NoError(t, err)
	r.Release()

	r, err = AdoptOut(IGreeter, nil, hresult.E_ACCESSDENIED)
	assert.Nil(t, r)
	var hr hresult.HRESULT
	require.ErrorAs(t, err, &hr)
	assert.Equal(t, hresult.E_ACCESSDENIED, hr)
	assert.Contains(t, err.Error(), "IGreeter")
}

func TestString(t *testing.T) {
	r := Adopt(IGreeter, newFake())
	assert.Equal(t, "Ref[IGreeter](live, refs=1)", r.String())
	r.Release()
	assert.Equal(t, "Ref[IGreeter](released, refs=1)", r.String())
}

func TestFatal_LogsBeforePanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	r := Adopt(IGreeter, newFake())
	r.Release()
	require.NotNil(t, catchPanic(func() { r.Get() }))

	entries := logs.FilterMessage("handle contract broken").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "use_after_release", entries[0].ContextMap()["kind"])

	assert.Equal(t, 1, logs.FilterMessage("adopt").Len())
	assert.Equal(t, 1, logs.FilterMessage("release").Len())
}

func TestRef_ConcurrentLineage(t *testing.T) {
	const workers = 64
	const rounds = 50

	f := newFake()
	root := Adopt(IPoliteGreeter, f)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				c := root.Clone()
				assert.Equal(t, "*bows*", c.Get().Bow())

				if (i+j)%2 == 0 {
					q := MustQuery(c, IGreeter)
					assert.Equal(t, "hello w", q.Get().Greet("w"))
					q.Release()
				} else {
					p := MustQuery(c, IPoliteGreeter)
					assert.Equal(t, "hello w", As(p, IGreeter).Get().Greet("w"))
					assert.GreaterOrEqual(t, p.RefCount(), uint64(3))
					p.Release()
				}
				c.Release()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(1), root.RefCount())
	refs, addRefs, releases, queries := f.counts()
	assert.Equal(t, uint32(1), refs)
	assert.Equal(t, workers*rounds, queries)
	assert.Equal(t, addRefs, releases)

	root.Release()
	refs, addRefs, releases, _ = f.counts()
	assert.Zero(t, refs)
	assert.Equal(t, addRefs+1, releases)
}
