// Package taxonomy turns a table of documented failure codes into Go error
// types.
//
// Each taxonomy becomes a type over hresult.HRESULT plus a closed Kind
// enumeration with a trailing Other member for codes the table does not
// list. The generated types satisfy hresult.Code, so they can be used as
// the error parameter of async.Operation.
//
// cmd/comerrgen wraps Parse and Generate for go:generate.
package taxonomy
