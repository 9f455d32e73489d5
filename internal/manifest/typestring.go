package manifest

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/types"
)

// Syntax is a parsed type string. Names stay as plain strings so manifests
// can be parsed on worker goroutines without touching the shared interner.
type Syntax struct {
	Kind     resolve.ExprKind
	Path     []string
	Elem     *Syntax
	Mutable  bool
	Count    uint32
	Elems    []Syntax
	Result   *Syntax
	Variadic bool
	ABI      types.ABI
}

// Expr interns every name and produces the resolver's expression form.
func (s *Syntax) Expr(strs *source.Interner, span source.Span) resolve.TypeExpr {
	e := resolve.TypeExpr{
		Kind:     s.Kind,
		Mutable:  s.Mutable,
		Count:    s.Count,
		Variadic: s.Variadic,
		ABI:      s.ABI,
		Span:     span,
	}
	if s.Path != nil {
		e.Path = strs.InternAll(s.Path)
	}
	if s.Elem != nil {
		elem := s.Elem.Expr(strs, span)
		e.Elem = &elem
	}
	if s.Result != nil {
		res := s.Result.Expr(strs, span)
		e.Result = &res
	}
	if len(s.Elems) > 0 {
		e.Elems = make([]resolve.TypeExpr, len(s.Elems))
		for i := range s.Elems {
			e.Elems[i] = s.Elems[i].Expr(strs, span)
		}
	}
	return e
}

// ParseType parses the manifest type grammar:
//
//	*T  *mut T  [*]T  [*]mut T  []T  []mut T  [N]T
//	()  (A, B)  (A,)  (T)
//	fn(A, B, ...) -> R  extern "c" fn(...)
//	A | B  _  a.b.C
//
// `|` binds loosest; `(T)` only groups.
func ParseType(src string) (Syntax, error) {
	p := typeParser{src: src}
	p.next()
	s, err := p.union()
	if err != nil {
		return Syntax{}, err
	}
	if p.tok.kind != tkEOF {
		return Syntax{}, p.errorf("unexpected %s", p.tok)
	}
	return s, nil
}

type tokKind uint8

const (
	tkEOF tokKind = iota
	tkIdent
	tkInt
	tkString
	tkStar
	tkLBrack
	tkRBrack
	tkLParen
	tkRParen
	tkComma
	tkDot
	tkEllipsis
	tkArrow
	tkPipe
	tkUnderscore
	tkBad
)

type tok struct {
	kind tokKind
	text string
	pos  int
}

func (t tok) String() string {
	if t.kind == tkEOF {
		return "end of type"
	}
	return strconv.Quote(t.text)
}

type typeParser struct {
	src string
	off int
	tok tok
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("col %d: %s", p.tok.pos+1, fmt.Sprintf(format, args...))
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (p *typeParser) next() {
	for p.off < len(p.src) && (p.src[p.off] == ' ' || p.src[p.off] == '\t') {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = tok{kind: tkEOF, pos: start}
		return
	}
	single := func(k tokKind) {
		p.off++
		p.tok = tok{kind: k, text: p.src[start:p.off], pos: start}
	}
	switch b := p.src[p.off]; {
	case b == '*':
		single(tkStar)
	case b == '[':
		single(tkLBrack)
	case b == ']':
		single(tkRBrack)
	case b == '(':
		single(tkLParen)
	case b == ')':
		single(tkRParen)
	case b == ',':
		single(tkComma)
	case b == '|':
		single(tkPipe)
	case b == '.':
		if len(p.src)-p.off >= 3 && p.src[p.off:p.off+3] == "..." {
			p.off += 3
			p.tok = tok{kind: tkEllipsis, text: "...", pos: start}
			return
		}
		single(tkDot)
	case b == '-':
		if p.off+1 < len(p.src) && p.src[p.off+1] == '>' {
			p.off += 2
			p.tok = tok{kind: tkArrow, text: "->", pos: start}
			return
		}
		single(tkBad)
	case b == '"':
		end := p.off + 1
		for end < len(p.src) && p.src[end] != '"' {
			end++
		}
		if end >= len(p.src) {
			p.off = len(p.src)
			p.tok = tok{kind: tkBad, text: p.src[start:], pos: start}
			return
		}
		p.off = end + 1
		p.tok = tok{kind: tkString, text: p.src[start+1 : end], pos: start}
	case b >= '0' && b <= '9':
		for p.off < len(p.src) && p.src[p.off] >= '0' && p.src[p.off] <= '9' {
			p.off++
		}
		p.tok = tok{kind: tkInt, text: p.src[start:p.off], pos: start}
	case isIdentStart(b):
		for p.off < len(p.src) && isIdentPart(p.src[p.off]) {
			p.off++
		}
		kind := tkIdent
		if p.off-start == 1 && b == '_' {
			kind = tkUnderscore
		}
		p.tok = tok{kind: kind, text: p.src[start:p.off], pos: start}
	default:
		single(tkBad)
	}
}

func (p *typeParser) expect(k tokKind, what string) error {
	if p.tok.kind != k {
		return p.errorf("expected %s, found %s", what, p.tok)
	}
	p.next()
	return nil
}

func (p *typeParser) union() (Syntax, error) {
	first, err := p.prefix()
	if err != nil {
		return Syntax{}, err
	}
	if p.tok.kind != tkPipe {
		return first, nil
	}
	members := []Syntax{first}
	for p.tok.kind == tkPipe {
		p.next()
		m, err := p.prefix()
		if err != nil {
			return Syntax{}, err
		}
		members = append(members, m)
	}
	return Syntax{Kind: resolve.ExprVariant, Elems: members}, nil
}

func (p *typeParser) mutFlag() bool {
	if p.tok.kind == tkIdent && p.tok.text == "mut" {
		p.next()
		return true
	}
	return false
}

func (p *typeParser) wrap(kind resolve.ExprKind, mutable bool) (Syntax, error) {
	elem, err := p.prefix()
	if err != nil {
		return Syntax{}, err
	}
	return Syntax{Kind: kind, Elem: &elem, Mutable: mutable}, nil
}

func (p *typeParser) prefix() (Syntax, error) {
	switch p.tok.kind {
	case tkStar:
		p.next()
		return p.wrap(resolve.ExprPointer, p.mutFlag())
	case tkLBrack:
		p.next()
		switch p.tok.kind {
		case tkStar:
			p.next()
			if err := p.expect(tkRBrack, "']'"); err != nil {
				return Syntax{}, err
			}
			return p.wrap(resolve.ExprManyPointer, p.mutFlag())
		case tkRBrack:
			p.next()
			return p.wrap(resolve.ExprSlice, p.mutFlag())
		case tkInt:
			n, err := strconv.ParseUint(p.tok.text, 10, 64)
			if err != nil {
				return Syntax{}, p.errorf("bad array length %s", p.tok)
			}
			count, err := safecast.Conv[uint32](n)
			if err != nil {
				return Syntax{}, p.errorf("array length %s too large", p.tok)
			}
			p.next()
			if err := p.expect(tkRBrack, "']'"); err != nil {
				return Syntax{}, err
			}
			elem, err := p.prefix()
			if err != nil {
				return Syntax{}, err
			}
			return Syntax{Kind: resolve.ExprArray, Elem: &elem, Count: count}, nil
		default:
			return Syntax{}, p.errorf("expected '*', ']' or a length after '[', found %s", p.tok)
		}
	case tkLParen:
		return p.tuple()
	case tkUnderscore:
		p.next()
		return Syntax{Kind: resolve.ExprInfer}, nil
	case tkIdent:
		switch p.tok.text {
		case "fn":
			return p.fn(types.ABICool)
		case "extern":
			p.next()
			if p.tok.kind != tkString {
				return Syntax{}, p.errorf("expected ABI string after extern, found %s", p.tok)
			}
			abi, ok := parseABI(p.tok.text)
			if !ok {
				return Syntax{}, p.errorf("unknown ABI %q", p.tok.text)
			}
			p.next()
			if p.tok.kind != tkIdent || p.tok.text != "fn" {
				return Syntax{}, p.errorf("expected fn after extern ABI, found %s", p.tok)
			}
			return p.fn(abi)
		}
		return p.path()
	default:
		return Syntax{}, p.errorf("expected a type, found %s", p.tok)
	}
}

func parseABI(s string) (types.ABI, bool) {
	switch s {
	case "c", "C":
		return types.ABIC, true
	case "cool":
		return types.ABICool, true
	}
	return types.ABICool, false
}

func (p *typeParser) path() (Syntax, error) {
	segs := []string{p.tok.text}
	p.next()
	for p.tok.kind == tkDot {
		p.next()
		if p.tok.kind != tkIdent {
			return Syntax{}, p.errorf("expected identifier after '.', found %s", p.tok)
		}
		segs = append(segs, p.tok.text)
		p.next()
	}
	return Syntax{Kind: resolve.ExprPath, Path: segs}, nil
}

func (p *typeParser) tuple() (Syntax, error) {
	p.next() // (
	if p.tok.kind == tkRParen {
		p.next()
		return Syntax{Kind: resolve.ExprTuple}, nil
	}
	first, err := p.union()
	if err != nil {
		return Syntax{}, err
	}
	elems := []Syntax{first}
	sawComma := false
	for p.tok.kind == tkComma {
		sawComma = true
		p.next()
		if p.tok.kind == tkRParen {
			break
		}
		e, err := p.union()
		if err != nil {
			return Syntax{}, err
		}
		elems = append(elems, e)
	}
	if err := p.expect(tkRParen, "')'"); err != nil {
		return Syntax{}, err
	}
	if len(elems) == 1 && !sawComma {
		return first, nil
	}
	return Syntax{Kind: resolve.ExprTuple, Elems: elems}, nil
}

func (p *typeParser) fn(abi types.ABI) (Syntax, error) {
	p.next() // fn
	if err := p.expect(tkLParen, "'(' after fn"); err != nil {
		return Syntax{}, err
	}
	sig := Syntax{Kind: resolve.ExprFn, ABI: abi}
	for p.tok.kind != tkRParen {
		if p.tok.kind == tkEllipsis {
			p.next()
			sig.Variadic = true
			break
		}
		param, err := p.union()
		if err != nil {
			return Syntax{}, err
		}
		sig.Elems = append(sig.Elems, param)
		if p.tok.kind != tkComma {
			break
		}
		p.next()
	}
	if err := p.expect(tkRParen, "')' to close parameters"); err != nil {
		return Syntax{}, err
	}
	if p.tok.kind == tkArrow {
		p.next()
		res, err := p.prefix()
		if err != nil {
			return Syntax{}, err
		}
		sig.Result = &res
	}
	return sig, nil
}
