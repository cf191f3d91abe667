package wasm

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionExport   = 0x07
	sectionCode     = 0x0a

	externFunc = 0x00
	funcType   = 0x60

	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

// ForwarderBuilder builds a guest module that re-exports functions of one
// host module.
type ForwarderBuilder struct {
	hostModuleName string
	funcs          []forwardFunc
}

type forwardFunc struct {
	name        string
	paramTypes  []api.ValueType
	resultTypes []api.ValueType
}

// NewForwarderBuilder creates a builder importing from hostModuleName.
func NewForwarderBuilder(hostModuleName string) *ForwarderBuilder {
	return &ForwarderBuilder{hostModuleName: hostModuleName}
}

// AddFunc adds a function to import and re-export under the same name.
func (b *ForwarderBuilder) AddFunc(name string, params, results []api.ValueType) {
	b.funcs = append(b.funcs, forwardFunc{
		name:        name,
		paramTypes:  params,
		resultTypes: results,
	})
}

// Build generates the module bytes. It returns nil when no function was
// added.
func (b *ForwarderBuilder) Build() []byte {
	if len(b.funcs) == 0 {
		return nil
	}

	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	wasm = appendSection(wasm, sectionType, b.buildTypeSection())
	wasm = appendSection(wasm, sectionImport, b.buildImportSection())
	wasm = appendSection(wasm, sectionFunction, b.buildFuncSection())
	wasm = appendSection(wasm, sectionExport, b.buildExportSection())
	wasm = appendSection(wasm, sectionCode, b.buildCodeSection())
	return wasm
}

func appendSection(wasm []byte, id byte, body []byte) []byte {
	wasm = append(wasm, id)
	wasm = append(wasm, EncodeULEB128(uint32(len(body)))...)
	return append(wasm, body...)
}

// Function i has type i, import i is function i and the forwarder for
// import i is function len(funcs)+i.

func (b *ForwarderBuilder) buildTypeSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		section = append(section, funcType)
		section = append(section, EncodeULEB128(uint32(len(f.paramTypes)))...)
		for _, t := range f.paramTypes {
			section = append(section, ValTypeToWasm(t))
		}
		section = append(section, EncodeULEB128(uint32(len(f.resultTypes)))...)
		for _, t := range f.resultTypes {
			section = append(section, ValTypeToWasm(t))
		}
	}
	return section
}

func (b *ForwarderBuilder) buildImportSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for i, f := range b.funcs {
		section = append(section, encodeName(b.hostModuleName)...)
		section = append(section, encodeName(f.name)...)
		section = append(section, externFunc)
		section = append(section, EncodeULEB128(uint32(i))...)
	}
	return section
}

func (b *ForwarderBuilder) buildFuncSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for i := range b.funcs {
		section = append(section, EncodeULEB128(uint32(i))...)
	}
	return section
}

func (b *ForwarderBuilder) buildExportSection() []byte {
	n := len(b.funcs)
	section := EncodeULEB128(uint32(n))
	for i, f := range b.funcs {
		section = append(section, encodeName(f.name)...)
		section = append(section, externFunc)
		section = append(section, EncodeULEB128(uint32(n+i))...)
	}
	return section
}

func (b *ForwarderBuilder) buildCodeSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for i, f := range b.funcs {
		body := buildFuncBody(i, f)
		section = append(section, EncodeULEB128(uint32(len(body)))...)
		section = append(section, body...)
	}
	return section
}

func buildFuncBody(importIdx int, f forwardFunc) []byte {
	body := []byte{0x00} // no locals
	for i := range f.paramTypes {
		body = append(body, opLocalGet)
		body = append(body, EncodeULEB128(uint32(i))...)
	}
	body = append(body, opCall)
	body = append(body, EncodeULEB128(uint32(importIdx))...)
	return append(body, opEnd)
}
