package com

import (
	"reflect"

	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Unknown is the contract every foreign object honors.
//
// AddRef and Release return the new foreign count, which is informational
// only. QueryInterface returns an interface pointer that already carries one
// reference for the caller when it reports S_OK.
type Unknown interface {
	AddRef() uint32
	Release() uint32
	QueryInterface(iid guid.GUID) (Unknown, hresult.HRESULT)
}

// isNil reports whether u is nil or a typed nil pointer.
func isNil(u any) bool {
	if u == nil {
		return true
	}
	v := reflect.ValueOf(u)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
