package hresult

import "fmt"

// HRESULT is a 32-bit foreign status code. Negative values (severity bit set)
// are failures; zero and positive values are success codes.
type HRESULT int32

// Code is satisfied by every error taxonomy built over HRESULT: the
// taxonomy is constructible from a raw code by conversion and comparable
// against a known success code.
type Code interface {
	~int32
}

// Generic status codes. Failure constants are written as the negative int32
// of their documented unsigned value.
const (
	S_OK    HRESULT = 0
	S_FALSE HRESULT = 1

	E_NOTIMPL      HRESULT = -0x7FFFBFFF // 0x80004001
	E_NOINTERFACE  HRESULT = -0x7FFFBFFE // 0x80004002
	E_POINTER      HRESULT = -0x7FFFBFFD // 0x80004003
	E_ABORT        HRESULT = -0x7FFFBFFC // 0x80004004
	E_FAIL         HRESULT = -0x7FFFBFFB // 0x80004005
	E_UNEXPECTED   HRESULT = -0x7FFF0001 // 0x8000FFFF
	E_ACCESSDENIED HRESULT = -0x7FF8FFFB // 0x80070005
	E_OUTOFMEMORY  HRESULT = -0x7FF8FFF2 // 0x8007000E
	E_INVALIDARG   HRESULT = -0x7FF8FFA9 // 0x80070057
)

// Volume shadow copy codes used by the async task capability.
const (
	VSS_S_ASYNC_PENDING   HRESULT = 0x00042309
	VSS_S_ASYNC_FINISHED  HRESULT = 0x0004230A
	VSS_S_ASYNC_CANCELLED HRESULT = 0x0004230B

	VSS_E_BAD_STATE        HRESULT = -0x7FFBDCFF // 0x80042301
	VSS_E_UNEXPECTED       HRESULT = -0x7FFBDCFE // 0x80042302
	VSS_E_OBJECT_NOT_FOUND HRESULT = -0x7FFBDCF8 // 0x80042308
)

var names = map[HRESULT]string{
	S_OK:                   "S_OK",
	S_FALSE:                "S_FALSE",
	E_NOTIMPL:              "E_NOTIMPL",
	E_NOINTERFACE:          "E_NOINTERFACE",
	E_POINTER:              "E_POINTER",
	E_ABORT:                "E_ABORT",
	E_FAIL:                 "E_FAIL",
	E_UNEXPECTED:           "E_UNEXPECTED",
	E_ACCESSDENIED:         "E_ACCESSDENIED",
	E_OUTOFMEMORY:          "E_OUTOFMEMORY",
	E_INVALIDARG:           "E_INVALIDARG",
	VSS_S_ASYNC_PENDING:    "VSS_S_ASYNC_PENDING",
	VSS_S_ASYNC_FINISHED:   "VSS_S_ASYNC_FINISHED",
	VSS_S_ASYNC_CANCELLED:  "VSS_S_ASYNC_CANCELLED",
	VSS_E_BAD_STATE:        "VSS_E_BAD_STATE",
	VSS_E_UNEXPECTED:       "VSS_E_UNEXPECTED",
	VSS_E_OBJECT_NOT_FOUND: "VSS_E_OBJECT_NOT_FOUND",
}

// FromUint32 reinterprets the documented unsigned form of a code.
func FromUint32(u uint32) HRESULT {
	return HRESULT(int32(u))
}

// Uint32 returns the documented unsigned form.
func (h HRESULT) Uint32() uint32 {
	return uint32(h)
}

// Succeeded reports whether h is a success code.
func Succeeded(h HRESULT) bool {
	return h >= 0
}

// Failed reports whether h is a failure code.
func Failed(h HRESULT) bool {
	return h < 0
}

// IsSuccess reports whether a taxonomy value holds S_OK.
func IsSuccess[C Code](c C) bool {
	return HRESULT(c) == S_OK
}

// Check converts h into an error. S_OK yields nil; every other code,
// including success codes such as S_FALSE, is returned as is.
func Check(h HRESULT) error {
	if h == S_OK {
		return nil
	}
	return h
}

// Name returns the symbolic name of a well-known code, or "".
func (h HRESULT) Name() string {
	return names[h]
}

// Severity returns 1 for failures and 0 for success codes.
func (h HRESULT) Severity() uint32 {
	return uint32(h) >> 31
}

// Facility returns the 13-bit facility field.
func (h HRESULT) Facility() uint32 {
	return (uint32(h) >> 16) & 0x1FFF
}

// CodeNumber returns the low 16-bit code field.
func (h HRESULT) CodeNumber() uint32 {
	return uint32(h) & 0xFFFF
}

// String formats h as 0xXXXXXXXX, followed by its name when known.
func (h HRESULT) String() string {
	if n := h.Name(); n != "" {
		return fmt.Sprintf("0x%08X (%s)", uint32(h), n)
	}
	return fmt.Sprintf("0x%08X", uint32(h))
}

// Error implements error so a raw code can be returned directly.
func (h HRESULT) Error() string {
	return "HRESULT " + h.String()
}
