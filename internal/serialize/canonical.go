package serialize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical renders values in a stable, line-oriented form:
//
//	{
//	  "items": [
//	    1,
//	    2,
//	  ],
//	  "name": "cart",
//	}
//
// Object keys are ordered by UTF-16 code units and every string is NFC
// normalized, so the output does not depend on map iteration order or on how
// the source text was composed.
type Canonical struct{}

// Serialize implements Serializer.
func (Canonical) Serialize(v any, cfg Config) (string, error) {
	tree, err := toTree(v)
	if err != nil {
		return "", err
	}
	if cfg.Indent < 0 {
		cfg.Indent = 0
	}

	p := &printer{cfg: cfg, pad: strings.Repeat(" ", cfg.Indent)}
	p.value(tree, 0)
	return p.buf.String(), nil
}

// errorTag is printed bare, without quotes.
type errorTag string

type printer struct {
	cfg Config
	pad string
	buf strings.Builder
}

func (p *printer) indent(depth int) {
	for i := 0; i < depth; i++ {
		p.buf.WriteString(p.pad)
	}
}

func (p *printer) value(v any, depth int) {
	switch val := v.(type) {
	case nil:
		p.buf.WriteString("null")
	case bool:
		p.buf.WriteString(strconv.FormatBool(val))
	case json.Number:
		p.buf.WriteString(val.String())
	case float64:
		p.buf.WriteString(formatFloat(val))
	case string:
		p.str(val)
	case errorTag:
		p.buf.WriteString("[Error: " + string(val) + "]")
	case []any:
		p.array(val, depth)
	case map[string]any:
		p.object(val, depth)
	default:
		// toTree never produces anything else.
		p.buf.WriteString(fmt.Sprintf("%v", val))
	}
}

func (p *printer) str(s string) {
	s = norm.NFC.String(s)
	if p.cfg.EscapeString {
		s = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
	}
	p.buf.WriteByte('"')
	p.buf.WriteString(s)
	p.buf.WriteByte('"')
}

func (p *printer) array(arr []any, depth int) {
	if p.cfg.PrintBasicPrototype {
		p.buf.WriteString("Array ")
	}
	if len(arr) == 0 {
		p.buf.WriteString("[]")
		return
	}

	p.buf.WriteString("[\n")
	for _, elem := range arr {
		p.indent(depth + 1)
		p.value(elem, depth+1)
		p.buf.WriteString(",\n")
	}
	p.indent(depth)
	p.buf.WriteByte(']')
}

func (p *printer) object(obj map[string]any, depth int) {
	if p.cfg.PrintBasicPrototype {
		p.buf.WriteString("Object ")
	}
	if len(obj) == 0 {
		p.buf.WriteString("{}")
		return
	}

	p.buf.WriteString("{\n")
	for _, k := range SortedKeys(obj) {
		p.indent(depth + 1)
		p.str(k)
		p.buf.WriteString(": ")
		p.value(obj[k], depth+1)
		p.buf.WriteString(",\n")
	}
	p.indent(depth)
	p.buf.WriteByte('}')
}

// formatFloat prints f the way JavaScript's Number#toString does: plain
// decimals from 1e-6 up to 1e21, exponent form outside that range.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}
