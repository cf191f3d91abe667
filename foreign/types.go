package foreign

import (
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Handle is an opaque 32-bit name for an interface pointer held by a Host.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a contract call or lifecycle change.
type EventType uint8

const (
	EventCreated EventType = iota
	EventAddRef
	EventRelease
	EventQuery
	EventDestroyed
	EventViolation
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventAddRef:
		return "add_ref"
	case EventRelease:
		return "release"
	case EventQuery:
		return "query"
	case EventDestroyed:
		return "destroyed"
	case EventViolation:
		return "violation"
	default:
		return "unknown"
	}
}

// Event describes one call made on a hosted object.
type Event struct {
	Object *Object
	Detail string
	IID    guid.GUID
	Result hresult.HRESULT
	Count  uint32
	Type   EventType
}

// Observer receives notifications about hosted objects.
type Observer interface {
	OnObjectEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnObjectEvent(e Event) { f(e) }

// ViolationKind categorizes a broken contract detected by the host.
type ViolationKind uint8

const (
	// ViolationUseAfterFree is a call on an object whose count reached zero.
	ViolationUseAfterFree ViolationKind = iota
	// ViolationCounterWrap is an AddRef that wrapped the 32-bit counter.
	ViolationCounterWrap
	// ViolationBadHandle is a handle-level call with an unknown handle.
	ViolationBadHandle
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationUseAfterFree:
		return "use_after_free"
	case ViolationCounterWrap:
		return "counter_wrap"
	case ViolationBadHandle:
		return "bad_handle"
	default:
		return "unknown"
	}
}

// Violation records a contract breach. A real foreign system would crash
// or corrupt memory; the host records the breach and carries on.
type Violation struct {
	Object string
	Op     string
	Kind   ViolationKind
}

// Stats summarizes host activity.
type Stats struct {
	Objects    int
	Live       int
	Handles    int
	AddRefs    int
	Releases   int
	Queries    int
	Violations int
}
