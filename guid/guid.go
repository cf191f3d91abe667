// Package guid implements the 128-bit identity tokens used to select
// capabilities of foreign objects.
//
// A GUID keeps the COM field layout (Data1..Data4) so binding code can be
// written from header definitions, while parsing, formatting and random
// generation are delegated to github.com/google/uuid.
package guid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GUID is a globally unique identifier in COM field layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IIDUnknown identifies the root capability every foreign object implements.
var IIDUnknown = MustParse("{00000000-0000-0000-C000-000000000046}")

// FromUUID converts an RFC 4122 UUID into a GUID with the same textual form.
func FromUUID(u uuid.UUID) GUID {
	return GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
		Data4: [8]byte(u[8:16]),
	}
}

// UUID returns the RFC 4122 form of g.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:], g.Data4[:])
	return u
}

// Parse decodes s. Accepted forms are the canonical 36 character form,
// the registry form wrapped in braces, urn:uuid: prefixed and 32 raw hex digits.
func Parse(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("guid: parse %q: %w", s, err)
	}
	return FromUUID(u), nil
}

// MustParse is like Parse but panics if s cannot be parsed.
// Intended for package-level capability identities.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// New returns a random (version 4) GUID.
func New() GUID {
	return FromUUID(uuid.New())
}

// IsZero reports whether g is the nil GUID.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// String returns the registry form, e.g. {507C37B4-CF5B-4E95-B0AF-14EB9767467E}.
func (g GUID) String() string {
	return "{" + strings.ToUpper(g.UUID().String()) + "}"
}

// Halves splits g into two big-endian words. Used by ABIs that cannot pass
// 16 byte values by reference.
func (g GUID) Halves() (hi, lo uint64) {
	u := g.UUID()
	return binary.BigEndian.Uint64(u[0:8]), binary.BigEndian.Uint64(u[8:16])
}

// FromHalves reverses Halves.
func FromHalves(hi, lo uint64) GUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[0:8], hi)
	binary.BigEndian.PutUint64(u[8:16], lo)
	return FromUUID(u)
}

// Bytes returns the in-memory COM layout: Data1..Data3 little-endian, Data4 as is.
func (g GUID) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], g.Data1)
	binary.LittleEndian.PutUint16(b[4:6], g.Data2)
	binary.LittleEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// FromBytes decodes the in-memory COM layout produced by Bytes.
func FromBytes(b [16]byte) GUID {
	return GUID{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
		Data4: [8]byte(b[8:16]),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
