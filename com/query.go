package com

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/hresult"
)

// Query asks the object behind r for capability c.
//
// On S_OK the returned handle owns the reference produced by the query and
// joins r's lineage. On E_NOINTERFACE Query returns false and the foreign
// count is unchanged. Any other status panics, as does a successful status
// that yields a nil pointer or an object without U's surface.
//
// Querying for r's own capability is allowed and yields an independent
// handle.
func Query[U, T any](r *Ref[T], c *Capability[U]) (*Ref[U], bool) {
	r.mustBeLive(errors.PhaseQuery)

	l := r.sharedLineage()
	if n := l.count.Load(); n >= maxRefs {
		fatal(errors.Overflow(errors.PhaseQuery, c.name, n))
	}

	out, hr := r.raw.QueryInterface(c.iid)
	switch hr {
	case hresult.S_OK:
	case hresult.E_NOINTERFACE:
		Logger().Debug("query unsupported",
			zap.String("from", r.cap.name),
			zap.String("capability", c.name))
		return nil, false
	default:
		fatal(errors.New(errors.PhaseQuery, errors.KindContractViolation).
			Capability(c.name).
			Value(hr).
			Detail("unexpected status %s", hr).
			Build())
	}

	if isNil(out) {
		fatal(errors.ContractViolation(errors.PhaseQuery, c.name, "S_OK with a nil interface pointer"))
	}
	surface, ok := out.(U)
	if !ok {
		out.Release()
		fatal(errors.ContractViolation(errors.PhaseQuery, c.name,
			fmt.Sprintf("%T does not implement %s", out, c.surface)))
	}

	n, ok := l.reserve()
	if !ok {
		out.Release()
		fatal(errors.Overflow(errors.PhaseQuery, c.name, n))
	}

	q := &Ref[U]{raw: out, surface: surface, cap: c}
	q.lineage.Store(l)

	Logger().Debug("query",
		zap.String("from", r.cap.name),
		zap.String("capability", c.name),
		zap.Uint64("count", n))
	return q, true
}

// MustQuery is like Query but panics when the capability is unsupported.
// Use it only for capabilities the object is documented to implement.
func MustQuery[U, T any](r *Ref[T], c *Capability[U]) *Ref[U] {
	q, ok := Query(r, c)
	if !ok {
		fatal(errors.New(errors.PhaseQuery, errors.KindNotImplemented).
			Capability(c.name).
			Detail("%s does not implement %s", r.cap.name, c.name).
			Build())
	}
	return q
}

// SameObject reports whether a and b refer to the same foreign object,
// comparing the pointers each returns for IUnknown.
func SameObject[A, B any](a *Ref[A], b *Ref[B]) bool {
	ua := MustQuery(a, IUnknown)
	defer ua.Release()
	ub := MustQuery(b, IUnknown)
	defer ub.Release()

	return identical(ua.raw, ub.raw)
}

func identical(x, y Unknown) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return x == y
}
