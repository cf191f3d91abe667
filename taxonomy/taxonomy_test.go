package taxonomy

import (
	stderrors "errors"
	"go/parser"
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/comsafe/errors"
)

const sample = `# header comment

Create
    E_ACCESSDENIED 0x80070005 AccessDenied
        The caller is not an administrator.
        Second line.
    VSS_E_BAD_STATE 0x80042301

Empty
`

func TestParse(t *testing.T) {
	taxonomies, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, taxonomies, 2)

	create := taxonomies[0]
	assert.Equal(t, "Create", create.Name)
	assert.Equal(t, "CreateError", create.TypeName())
	assert.Equal(t, "CreateErrorKind", create.KindName())
	assert.Equal(t, 3, create.Line)
	require.Len(t, create.Codes, 2)

	assert.Equal(t, Code{
		Name:   "E_ACCESSDENIED",
		GoName: "AccessDenied",
		Value:  0x80070005,
		Doc:    []string{"The caller is not an administrator.", "Second line."},
		Line:   4,
	}, create.Codes[0])
	assert.Equal(t, "BadState", create.Codes[1].GoName)
	assert.Empty(t, create.Codes[1].Doc)

	assert.Equal(t, "Empty", taxonomies[1].Name)
	assert.Empty(t, taxonomies[1].Codes)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  errors.Kind
		line  int
	}{
		{"odd indent", "Wait\n  E_FAIL 0x80004005\n", errors.KindSyntax, 2},
		{"tab indent", "Wait\n\tE_FAIL 0x80004005\n", errors.KindSyntax, 2},
		{"code before taxonomy", "    E_FAIL 0x80004005\n", errors.KindSyntax, 1},
		{"doc before code", "Wait\n        stray\n", errors.KindSyntax, 2},
		{"too deep", "Wait\n    E_FAIL 0x80004005\n            deep\n", errors.KindSyntax, 3},
		{"missing hex prefix", "Wait\n    E_FAIL 80004005\n", errors.KindSyntax, 2},
		{"too wide", "Wait\n    E_FAIL 0x180004005\n", errors.KindSyntax, 2},
		{"extra fields", "Wait\n    E_FAIL 0x80004005 Fail extra\n", errors.KindSyntax, 2},
		{"lowercase taxonomy", "wait\n", errors.KindSyntax, 1},
		{"reserved name", "Wait\n    E_OTHER 0x80004005 Other\n", errors.KindSyntax, 2},
		{"duplicate taxonomy", "Wait\nWait\n", errors.KindDuplicate, 2},
		{"duplicate code", "Wait\n    E_FAIL 0x80004005\n    E_ALSO 0x80004005\n", errors.KindDuplicate, 3},
		{"duplicate go name", "Wait\n    E_FAIL 0x80004005 X\n    E_ABORT 0x80004004 X\n", errors.KindDuplicate, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var e *errors.Error
			require.True(t, stderrors.As(err, &e), "got %v", err)
			assert.Equal(t, errors.PhaseParse, e.Phase)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.line, e.Line)
		})
	}
}

func TestGoName(t *testing.T) {
	assert.Equal(t, "BadState", GoName("VSS_E_BAD_STATE"))
	assert.Equal(t, "Accessdenied", GoName("E_ACCESSDENIED"))
	assert.Equal(t, "AsyncPending", GoName("VSS_S_ASYNC_PENDING"))
	assert.Equal(t, "E", GoName("E"))
}

func TestGenerate_Compiles(t *testing.T) {
	taxonomies, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	src, err := Generate("vss", "", taxonomies)
	require.NoError(t, err)

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "generated.go", src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "vss", f.Name.Name)

	out := string(src)
	assert.True(t, strings.HasPrefix(out, "// Code generated by comerrgen. DO NOT EDIT."))
	assert.Contains(t, out, `import "github.com/wippyai/comsafe/hresult"`)
	assert.Contains(t, out, "type CreateError hresult.HRESULT")
	assert.Contains(t, out, "CreateErrorAccessDenied CreateErrorKind = iota")
	assert.Contains(t, out, "case 0x80042301:\n\t\treturn CreateErrorBadState")
	assert.Contains(t, out, "// The caller is not an administrator.\n\t// Second line.\n")
	assert.Contains(t, out, "EmptyErrorOther EmptyErrorKind = iota")
}

func TestGenerate_AliasedImport(t *testing.T) {
	src, err := Generate("vss", "example.com/codes", nil)
	require.NoError(t, err)
	assert.Contains(t, string(src), `import hresult "example.com/codes"`)
}

func TestGenerate_RequiresPackage(t *testing.T) {
	_, err := Generate("", "", nil)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.PhaseGenerate, e.Phase)
	assert.Equal(t, errors.KindInvalidInput, e.Kind)
}

func TestGenerate_AsyncTableUpToDate(t *testing.T) {
	table, err := os.Open("../async/errors.md")
	require.NoError(t, err)
	defer table.Close()

	taxonomies, err := Parse(table)
	require.NoError(t, err)

	src, err := Generate("async", "", taxonomies)
	require.NoError(t, err)

	want, err := os.ReadFile("../async/zz_generated_errors.go")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(src), "run go generate ./async")
}
