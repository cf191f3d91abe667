package taxonomy

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/wippyai/comsafe/errors"
)

const indentWidth = 4

// Taxonomy is a closed set of failure codes one operation documents.
type Taxonomy struct {
	Name  string
	Codes []Code
	Line  int
}

// TypeName returns the generated error type name.
func (t Taxonomy) TypeName() string { return t.Name + "Error" }

// KindName returns the generated kind type name.
func (t Taxonomy) KindName() string { return t.Name + "ErrorKind" }

// Code is one documented failure code.
type Code struct {
	Name   string
	GoName string
	Doc    []string
	Value  uint32
	Line   int
}

// Parse reads taxonomies from a table:
//
//	# comment
//	Wait
//	    E_ACCESSDENIED 0x80070005 AccessDenied
//	        The caller is not an administrator.
//
// A line without indentation names a taxonomy. Codes are indented one
// level and documentation lines two levels. The Go name is derived from
// the code name when omitted.
func Parse(r io.Reader) ([]Taxonomy, error) {
	var (
		out  []Taxonomy
		cur  *Taxonomy
		code *Code
	)

	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), " \r")
		if line == "" {
			continue
		}

		rest := strings.TrimLeft(line, " ")
		if strings.HasPrefix(rest, "\t") {
			return nil, errors.Syntax(n, "tabs are not allowed for indentation")
		}
		indent := len(line) - len(rest)
		if indent%indentWidth != 0 {
			return nil, errors.Syntax(n, "indentation of %d spaces is not a multiple of %d", indent, indentWidth)
		}

		switch indent / indentWidth {
		case 0:
			if strings.HasPrefix(rest, "#") {
				continue
			}
			if !isExported(rest) {
				return nil, errors.Syntax(n, "taxonomy name %q is not an exported Go identifier", rest)
			}
			if seen[rest] {
				return nil, duplicate(n, "taxonomy %s declared twice", rest)
			}
			seen[rest] = true
			out = append(out, Taxonomy{Name: rest, Line: n})
			cur, code = &out[len(out)-1], nil

		case 1:
			if cur == nil {
				return nil, errors.Syntax(n, "code %q outside a taxonomy", rest)
			}
			c, err := parseCode(n, rest)
			if err != nil {
				return nil, err
			}
			for _, prev := range cur.Codes {
				if prev.Value == c.Value {
					return nil, duplicate(n, "%s repeats code 0x%08X from line %d", c.Name, c.Value, prev.Line)
				}
				if prev.GoName == c.GoName {
					return nil, duplicate(n, "Go name %s already used on line %d", c.GoName, prev.Line)
				}
			}
			cur.Codes = append(cur.Codes, c)
			code = &cur.Codes[len(cur.Codes)-1]

		case 2:
			if code == nil {
				return nil, errors.Syntax(n, "documentation outside a code")
			}
			code.Doc = append(code.Doc, rest)

		default:
			return nil, errors.Syntax(n, "indentation too deep")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "read table")
	}
	return out, nil
}

func parseCode(n int, rest string) (Code, error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 || len(fields) > 3 {
		return Code{}, errors.Syntax(n, "want NAME 0xCODE [GoName], got %q", rest)
	}

	hex, ok := strings.CutPrefix(fields[1], "0x")
	if !ok {
		return Code{}, errors.Syntax(n, "code %q must be written in hex with a 0x prefix", fields[1])
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Code{}, errors.Syntax(n, "code %q is not a 32-bit value", fields[1])
	}

	c := Code{Name: fields[0], Value: uint32(v), Line: n}
	if len(fields) == 3 {
		c.GoName = fields[2]
	} else {
		c.GoName = GoName(fields[0])
	}
	if !isExported(c.GoName) {
		return Code{}, errors.Syntax(n, "Go name %q is not an exported identifier", c.GoName)
	}
	if c.GoName == "Other" {
		return Code{}, errors.Syntax(n, "Go name Other is reserved for unlisted codes")
	}
	return c, nil
}

// GoName derives a Go identifier from a code name by dropping the facility
// and severity prefixes: VSS_E_BAD_STATE becomes BadState.
func GoName(name string) string {
	parts := strings.Split(name, "_")
	for len(parts) > 1 {
		switch parts[0] {
		case "VSS", "E", "S":
			parts = parts[1:]
			continue
		}
		break
	}

	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

func isExported(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

func duplicate(n int, detail string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindDuplicate).Line(n).Detail(detail, args...).Build()
}
