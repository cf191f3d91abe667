package taxonomy

import (
	"bytes"
	"go/format"
	"path"
	"text/template"

	"github.com/wippyai/comsafe/errors"
)

// DefaultHResultImport is the import path of the hresult package.
const DefaultHResultImport = "github.com/wippyai/comsafe/hresult"

var fileTemplate = template.Must(template.New("taxonomy").Parse(`// Code generated by comerrgen. DO NOT EDIT.

package {{.Package}}

import {{if .Alias}}hresult {{end}}"{{.Import}}"
{{range .Taxonomies}}{{$t := .}}
// {{.TypeName}} is a failure code reported by {{.Name}}.
type {{.TypeName}} hresult.HRESULT

// {{.KindName}} classifies a {{.TypeName}}.
type {{.KindName}} int

const (
{{- range $i, $c := .Codes}}
{{- range $c.Doc}}
	// {{.}}
{{- end}}
	{{$t.TypeName}}{{$c.GoName}}{{if eq $i 0}} {{$t.KindName}} = iota{{end}}
{{- end}}
	// {{.TypeName}}Other is any code not listed above.
	{{.TypeName}}Other{{if not .Codes}} {{.KindName}} = iota{{end}}
)

// Kind returns the category of e.
func (e {{.TypeName}}) Kind() {{.KindName}} {
	switch uint32(e) {
{{- range .Codes}}
	case {{printf "0x%08X" .Value}}:
		return {{$t.TypeName}}{{.GoName}}
{{- end}}
	}
	return {{.TypeName}}Other
}

// HRESULT returns the raw code.
func (e {{.TypeName}}) HRESULT() hresult.HRESULT {
	return hresult.HRESULT(e)
}

func (e {{.TypeName}}) Error() string {
	return "{{.Name}}: " + e.Kind().String() + ", code " + hresult.HRESULT(e).String()
}

func (k {{.KindName}}) String() string {
	switch k {
{{- range .Codes}}
	case {{$t.TypeName}}{{.GoName}}:
		return "{{.GoName}}"
{{- end}}
	}
	return "Other"
}
{{end}}`))

// Generate renders taxonomies as a gofmt-formatted Go file in package pkg.
// hresultImport is the import path of the hresult package; empty selects
// DefaultHResultImport.
func Generate(pkg, hresultImport string, taxonomies []Taxonomy) ([]byte, error) {
	if pkg == "" {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "package name is required")
	}
	if hresultImport == "" {
		hresultImport = DefaultHResultImport
	}

	data := struct {
		Package    string
		Import     string
		Taxonomies []Taxonomy
		Alias      bool
	}{
		Package:    pkg,
		Import:     hresultImport,
		Taxonomies: taxonomies,
		Alias:      path.Base(hresultImport) != "hresult",
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "render template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindSyntax, err, "format generated source")
	}
	return src, nil
}
