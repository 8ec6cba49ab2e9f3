package store

import (
	"errors"
	"fmt"
	"strings"
)

// Header is the first line of every artifact written by Encode.
const Header = "// snapkit snapshot v1"

var backtickEscaper = strings.NewReplacer("`", "\\`", `\`, `\\`, "${", `\${`)

// Encode renders data in the canonical artifact form.
func Encode(data Data) []byte {
	entries := make([]string, 0, len(data))
	for _, k := range data.Keys() {
		entries = append(entries,
			"exports["+quoteBacktick(NormalizeNewlines(k))+"] = "+quoteBacktick(NormalizeNewlines(data[k]))+";")
	}

	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(entries, "\n\n"))
	b.WriteString("\n")
	return []byte(b.String())
}

func quoteBacktick(s string) string {
	return "`" + backtickEscaper.Replace(s) + "`"
}

// NormalizeNewlines converts CRLF line endings to LF. Artifacts are read
// this way, so keys and values are stored this way too.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Decode parses an artifact. Comment lines are skipped, so a missing or
// outdated header still decodes; callers detect it by re-encoding.
func Decode(content []byte) (Data, error) {
	d := &decoder{src: NormalizeNewlines(string(content))}
	data := make(Data)

	for {
		d.skipSpaceAndComments()
		if d.eof() {
			return data, nil
		}

		if err := d.expect("exports["); err != nil {
			return nil, err
		}
		d.skipSpace()
		key, err := d.backtick()
		if err != nil {
			return nil, err
		}
		d.skipSpace()
		if err := d.expect("]"); err != nil {
			return nil, err
		}
		d.skipSpace()
		if err := d.expect("="); err != nil {
			return nil, err
		}
		d.skipSpace()
		value, err := d.backtick()
		if err != nil {
			return nil, err
		}
		d.skipSpace()
		if err := d.expect(";"); err != nil {
			return nil, err
		}

		if _, dup := data[key]; dup {
			return nil, fmt.Errorf("duplicate key %q at line %d", key, d.line())
		}
		data[key] = value
	}
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) eof() bool {
	return d.pos >= len(d.src)
}

func (d *decoder) line() int {
	return strings.Count(d.src[:d.pos], "\n") + 1
}

func (d *decoder) skipSpace() {
	for !d.eof() {
		switch d.src[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) skipSpaceAndComments() {
	for {
		d.skipSpace()
		if !strings.HasPrefix(d.src[d.pos:], "//") {
			return
		}
		if nl := strings.IndexByte(d.src[d.pos:], '\n'); nl >= 0 {
			d.pos += nl + 1
		} else {
			d.pos = len(d.src)
		}
	}
}

func (d *decoder) expect(tok string) error {
	if !strings.HasPrefix(d.src[d.pos:], tok) {
		return fmt.Errorf("expected %q at line %d", tok, d.line())
	}
	d.pos += len(tok)
	return nil
}

var errUnterminated = errors.New("unterminated backtick string")

func (d *decoder) backtick() (string, error) {
	if err := d.expect("`"); err != nil {
		return "", err
	}

	var b strings.Builder
	for !d.eof() {
		c := d.src[d.pos]
		switch {
		case c == '`':
			d.pos++
			return b.String(), nil
		case c == '\\' && d.pos+1 < len(d.src):
			next := d.src[d.pos+1]
			if next == '`' || next == '\\' || next == '$' {
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			d.pos += 2
		default:
			b.WriteByte(c)
			d.pos++
		}
	}
	return "", fmt.Errorf("%w starting before line %d", errUnterminated, d.line())
}
