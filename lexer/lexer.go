// Package lexer implements the JSON tokenizer/parser (component C2): a
// state machine over a byte source with one byte of pushback, building the
// intermediate tree (package tree) directly — there is no separate token
// stream (spec.md §4.2).
//
// Nested arrays and objects are both walked with an explicit frame stack
// instead of recursive descent, so a pathologically deep input (spec.md §8's
// 10k-level array) cannot blow the Go call stack the way naive recursion
// would.
package lexer

import (
	"strconv"

	"github.com/zenobiuszeto/json-io/codecerr"
	"github.com/zenobiuszeto/json-io/internal/intern"
	"github.com/zenobiuszeto/json-io/tree"
)

// maxNumberLen is the longest number literal accepted; a longer one is a
// lexical error (spec.md §4.2: "256 suffices; overflow fails").
const maxNumberLen = 256

// Parser scans buf and builds the intermediate tree. Table is populated as
// @id markers are parsed, per spec.md §4.2 ("Objects").
type Parser struct {
	buf   []byte
	pos   int // next unread byte, 0-based
	Table *tree.Table
}

// New returns a Parser over buf, registering @id markers into table as they
// are parsed. table must not be nil.
func New(buf []byte, table *tree.Table) *Parser {
	return &Parser{buf: buf, Table: table}
}

// Parse consumes the single top-level JSON value permitted to be any JSON
// value — object, array, string, number, boolean, or null (spec.md §4.2
// "Grammar accepted") — and returns the intermediate tree for it.
func (p *Parser) Parse() (*tree.Node, error) {
	p.skipWS()
	n, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.buf) {
		return nil, codecerr.Structuralf(p.bytePos(), "unexpected trailing data")
	}
	return n, nil
}

// bytePos returns the 1-based byte position of the next unread byte, for
// error reporting (spec.md §4.2 "Parse errors carry the 1-based byte
// position").
func (p *Parser) bytePos() int { return p.pos + 1 }

func (p *Parser) eof() bool { return p.pos >= len(p.buf) }

// peek returns the next byte without consuming it.
func (p *Parser) peek() (byte, bool) {
	if p.eof() {
		return 0, false
	}
	return p.buf[p.pos], true
}

// next consumes and returns the next byte.
func (p *Parser) next() (byte, bool) {
	b, ok := p.peek()
	if ok {
		p.pos++
	}
	return b, ok
}

// pushback un-consumes the single most recently read byte. Only one level
// of pushback is ever needed because every scanner here looks exactly one
// byte past the token it's recognizing.
func (p *Parser) pushback() { p.pos-- }

func isWS(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\b':
		return true
	default:
		return false
	}
}

func (p *Parser) skipWS() {
	for {
		b, ok := p.peek()
		if !ok || !isWS(b) {
			return
		}
		p.pos++
	}
}

// frame is one level of the explicit array/object work stack.
type frame struct {
	isArray bool

	// array state
	elems []*tree.Node

	// object state
	obj         *tree.Node
	state       objState
	pendingKey  string
	pendingMeta string // "" if pendingKey isn't a meta-key
}

type objState int

const (
	objExpectKeyOrEnd objState = iota
	objExpectColon
	objExpectValue
	objExpectCommaOrEnd
)

// parseValue parses one JSON value starting at the current position,
// driving an explicit stack for any nested arrays/objects it encounters.
func (p *Parser) parseValue() (*tree.Node, error) {
	var stack []*frame

	// deliver hands a completed value to whatever is waiting for it: the
	// array/object frame on top of the stack, or — if the stack is empty —
	// it's the final result.
	deliver := func(v *tree.Node) (*tree.Node, bool, error) {
		if len(stack) == 0 {
			return v, true, nil
		}
		top := stack[len(stack)-1]
		if top.isArray {
			top.elems = append(top.elems, v)
			return nil, false, nil
		}
		if err := p.assignField(top, v); err != nil {
			return nil, false, err
		}
		top.state = objExpectCommaOrEnd
		return nil, false, nil
	}

	for {
		p.skipWS()
		b, ok := p.peek()
		if !ok {
			return nil, codecerr.Structuralf(p.bytePos(), "unexpected end of input")
		}

		// If we're mid-object, the grammar expects a very specific token
		// next; dispatch on that before falling into generic value parsing.
		if len(stack) > 0 && !stack[len(stack)-1].isArray {
			top := stack[len(stack)-1]
			switch top.state {
			case objExpectKeyOrEnd:
				if b == '}' {
					p.pos++
					res := closeObject(top, &stack)
					d, fin, err := deliver(res)
					if err != nil {
						return nil, err
					}
					if fin {
						return d, nil
					}
					continue
				}
				if b != '"' {
					return nil, codecerr.Structuralf(p.bytePos(), "expected field name or '}', got %q", b)
				}
				p.pos++
				key, err := p.parseString()
				if err != nil {
					return nil, err
				}
				top.pendingKey = key
				top.pendingMeta = metaOf(key)
				top.state = objExpectColon
				continue
			case objExpectColon:
				if b != ':' {
					return nil, codecerr.Structuralf(p.bytePos(), "expected ':' after field name, got %q", b)
				}
				p.pos++
				top.state = objExpectValue
				continue
			case objExpectCommaOrEnd:
				if b == '}' {
					p.pos++
					res := closeObject(top, &stack)
					d, fin, err := deliver(res)
					if err != nil {
						return nil, err
					}
					if fin {
						return d, nil
					}
					continue
				}
				if b != ',' {
					return nil, codecerr.Structuralf(p.bytePos(), "expected ',' or '}', got %q", b)
				}
				p.pos++
				top.state = objExpectKeyOrEnd
				continue
			}
			// objExpectValue falls through to generic value parsing below.
		}

		if len(stack) > 0 && stack[len(stack)-1].isArray && b == ',' && len(stack[len(stack)-1].elems) > 0 {
			p.pos++
			continue
		}

		if len(stack) > 0 && stack[len(stack)-1].isArray && b == ']' {
			p.pos++
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			arr := tree.NewArray(top.elems)
			d, fin, err := deliver(arr)
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
			continue
		}

		switch {
		case b == '{':
			p.pos++
			f := &frame{obj: tree.NewObject(), state: objExpectKeyOrEnd}
			p.skipWS()
			if nb, ok := p.peek(); ok && nb == '}' {
				p.pos++
				d, fin, err := deliver(f.obj)
				if err != nil {
					return nil, err
				}
				if fin {
					return d, nil
				}
				continue
			}
			stack = append(stack, f)
		case b == '[':
			p.pos++
			f := &frame{isArray: true}
			p.skipWS()
			if nb, ok := p.peek(); ok && nb == ']' {
				p.pos++
				d, fin, err := deliver(tree.NewArray(nil))
				if err != nil {
					return nil, err
				}
				if fin {
					return d, nil
				}
				continue
			}
			stack = append(stack, f)
		case b == '"':
			p.pos++
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			d, fin, err := deliver(tree.NewString(s))
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
		case b == 't':
			if err := p.expectLiteral("true"); err != nil {
				return nil, err
			}
			d, fin, err := deliver(tree.NewBool(true))
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
		case b == 'f':
			if err := p.expectLiteral("false"); err != nil {
				return nil, err
			}
			d, fin, err := deliver(tree.NewBool(false))
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
		case b == 'n':
			if err := p.expectLiteral("null"); err != nil {
				return nil, err
			}
			d, fin, err := deliver(tree.NewNull())
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
		case b == '-' || (b >= '0' && b <= '9'):
			n, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			d, fin, err := deliver(n)
			if err != nil {
				return nil, err
			}
			if fin {
				return d, nil
			}
		default:
			return nil, codecerr.Lexicalf(p.bytePos(), "unexpected character %q", b)
		}
	}
}

// metaOf reports which reserved meta-key name denotes, or "" if it is an
// ordinary user field.
func metaOf(key string) string {
	switch key {
	case "@type", "@id", "@ref", "@items", "@keys", "value":
		return key
	default:
		return ""
	}
}

// assignField attaches a just-parsed value to the object frame awaiting it,
// dispatching meta-keys to their dedicated Node slots and registering @id
// into the parser's reference table (spec.md §4.2 "Objects": "When the
// field being populated is the string @id, the just-parsed value is also
// registered in the reference table keyed by that id").
func (p *Parser) assignField(f *frame, v *tree.Node) error {
	switch f.pendingMeta {
	case "@type":
		if v.Kind != tree.KindScalar || v.Scalar != tree.ScalarString {
			return codecerr.Semanticf("@type", "expected string value")
		}
		f.obj.HasType = true
		f.obj.Type = v.Str
	case "@id":
		if v.Kind != tree.KindScalar || v.Scalar != tree.ScalarInt {
			return codecerr.Semanticf("@id", "expected integer value")
		}
		f.obj.HasID = true
		f.obj.ID = v.Int
		if p.Table != nil {
			p.Table.Register(v.Int, f.obj)
		}
	case "@ref":
		if v.Kind != tree.KindScalar || v.Scalar != tree.ScalarInt {
			return codecerr.Semanticf("@ref", "expected integer value")
		}
		f.obj.HasRef = true
		f.obj.Ref = v.Int
	case "@items":
		if v.Kind != tree.KindArray {
			return codecerr.Semanticf("@items", "expected array value")
		}
		f.obj.Items = v.Elems
	case "@keys":
		if v.Kind != tree.KindArray {
			return codecerr.Semanticf("@keys", "expected array value")
		}
		f.obj.Keys = v.Elems
	case "value":
		f.obj.HasValue = true
		f.obj.Value = v
	default:
		if len(f.pendingKey) > 0 && f.pendingKey[0] == '@' {
			return nil // unknown @-prefixed key: reserved, never a user field
		}
		f.obj.Fields = append(f.obj.Fields, tree.ObjectField{Key: f.pendingKey, Value: v})
	}
	return nil
}

// closeObject pops the top frame and returns its finished Object node.
func closeObject(top *frame, stack *[]*frame) *tree.Node {
	*stack = (*stack)[:len(*stack)-1]
	return top.obj
}

func (p *Parser) expectLiteral(lit string) error {
	start := p.pos
	for i := 0; i < len(lit); i++ {
		b, ok := p.next()
		if !ok || b != lit[i] {
			p.pos = start
			return codecerr.Lexicalf(p.bytePos(), "invalid literal, expected %q", lit)
		}
	}
	return nil
}

// parseString assumes the opening '"' has already been consumed.
func (p *Parser) parseString() (string, error) {
	var buf []byte
	for {
		b, ok := p.next()
		if !ok {
			return "", codecerr.Lexicalf(p.bytePos(), "unterminated string")
		}
		if b == '"' {
			return intern.String(string(buf)), nil
		}
		if b != '\\' {
			buf = append(buf, b)
			continue
		}
		esc, ok := p.next()
		if !ok {
			return "", codecerr.Lexicalf(p.bytePos(), "unterminated escape sequence")
		}
		switch esc {
		case 'n':
			buf = append(buf, '\n')
		case 't':
			buf = append(buf, '\t')
		case 'r':
			buf = append(buf, '\r')
		case 'f':
			buf = append(buf, '\f')
		case 'b':
			buf = append(buf, '\b')
		case '\\':
			buf = append(buf, '\\')
		case '/':
			buf = append(buf, '/')
		case '"':
			buf = append(buf, '"')
		case 'u':
			r, err := p.parseHex4()
			if err != nil {
				return "", err
			}
			if r >= 0xD800 && r <= 0xDBFF {
				// High surrogate: must be followed by a low surrogate.
				if b1, ok := p.next(); !ok || b1 != '\\' {
					return "", codecerr.Lexicalf(p.bytePos(), "unpaired surrogate escape")
				}
				if b2, ok := p.next(); !ok || b2 != 'u' {
					return "", codecerr.Lexicalf(p.bytePos(), "unpaired surrogate escape")
				}
				low, err := p.parseHex4()
				if err != nil {
					return "", err
				}
				if low < 0xDC00 || low > 0xDFFF {
					return "", codecerr.Lexicalf(p.bytePos(), "invalid low surrogate")
				}
				cp := 0x10000 + (r-0xD800)*0x400 + (low - 0xDC00)
				buf = appendRune(buf, rune(cp))
			} else {
				buf = appendRune(buf, intern.Rune(rune(r)))
			}
		default:
			return "", codecerr.Lexicalf(p.bytePos(), "invalid escape character %q", esc)
		}
	}
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [4]byte
	n := encodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}

// encodeRune UTF-8 encodes r into dst, returning the byte count. A tiny
// hand-rolled substitute for utf8.EncodeRune so this file needs no import of
// unicode/utf8.
func encodeRune(dst []byte, r rune) int {
	switch {
	case r < 0x80:
		dst[0] = byte(r)
		return 1
	case r < 0x800:
		dst[0] = byte(0xC0 | r>>6)
		dst[1] = byte(0x80 | r&0x3F)
		return 2
	case r < 0x10000:
		dst[0] = byte(0xE0 | r>>12)
		dst[1] = byte(0x80 | (r>>6)&0x3F)
		dst[2] = byte(0x80 | r&0x3F)
		return 3
	default:
		dst[0] = byte(0xF0 | r>>18)
		dst[1] = byte(0x80 | (r>>12)&0x3F)
		dst[2] = byte(0x80 | (r>>6)&0x3F)
		dst[3] = byte(0x80 | r&0x3F)
		return 4
	}
}

func (p *Parser) parseHex4() (int, error) {
	v := 0
	for i := 0; i < 4; i++ {
		b, ok := p.next()
		if !ok {
			return 0, codecerr.Lexicalf(p.bytePos(), "unterminated \\u escape")
		}
		var d int
		switch {
		case b >= '0' && b <= '9':
			d = int(b - '0')
		case b >= 'a' && b <= 'f':
			d = int(b-'a') + 10
		case b >= 'A' && b <= 'F':
			d = int(b-'A') + 10
		default:
			return 0, codecerr.Lexicalf(p.bytePos(), "invalid hex digit %q", b)
		}
		v = v<<4 | d
	}
	return v, nil
}

// parseNumber scans a numeral of at most maxNumberLen bytes in place in the
// input and classifies it as integer or floating point based on whether '.', 'e', or 'E' were seen
// (spec.md §4.2 "Numbers").
func (p *Parser) parseNumber() (*tree.Node, error) {
	start := p.pos
	isFloat := false

	if b, ok := p.peek(); ok && b == '-' {
		p.pos++
	}
	for {
		b, ok := p.next()
		if !ok {
			break
		}
		switch {
		case b >= '0' && b <= '9':
			// consumed
		case b == '.':
			isFloat = true
		case b == 'e' || b == 'E':
			isFloat = true
			if nb, ok := p.next(); ok && nb != '+' && nb != '-' {
				// Not a signed exponent after all — give the byte back.
				p.pushback()
			}
		default:
			// Not part of the numeral: push the one look-ahead byte back
			// onto the source, exactly the single-byte pushback the lexer
			// is built around (spec.md §4.2).
			p.pushback()
			goto scanned
		}
		if p.pos-start > maxNumberLen {
			return nil, codecerr.Lexicalf(p.bytePos(), "number literal exceeds %d characters", maxNumberLen)
		}
	}
scanned:
	lit := string(p.buf[start:p.pos])
	if lit == "" || lit == "-" {
		return nil, codecerr.Lexicalf(p.bytePos(), "invalid number literal")
	}
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, codecerr.Lexicalf(p.bytePos(), "invalid float literal %q: %v", lit, err)
		}
		return tree.NewFloat(f), nil
	}
	i, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, codecerr.Lexicalf(p.bytePos(), "invalid integer literal %q: %v", lit, err)
	}
	return tree.NewInt(i), nil
}
