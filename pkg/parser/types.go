package parser

import (
	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
)

// scalarTypeNames maps a bare type identifier to its singleton Type, per
// §4.2 "Type syntax".
var scalarTypeNames = map[string]*ast.Type{
	"int8": ast.Int8, "int16": ast.Int16, "int32": ast.Int32, "int64": ast.Int64,
	"uint8": ast.Uint8, "uint16": ast.Uint16, "uint32": ast.Uint32, "uint64": ast.Uint64,
	"float32": ast.Float32, "float64": ast.Float64,
	"bool": ast.Bool, "char": ast.Char, "void": ast.Void, "str": ast.Str,
}

// parseType parses a type expression: `T`, `Ptr[T]`, `Array[N, T]`,
// `Fn[Ret, A, B]`, `volatile T`, `Optional[T]`, `List[T]`, `Dict[K,V]`,
// `Tuple[T,...]` (§4.2).
func (p *Parser) parseType() (*ast.Type, error) {
	if p.checkKeyword("volatile") {
		p.advance()
		return p.parseType()
	}

	if p.checkOp("@") {
		p.advance()

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		return ast.PtrTo(elem), nil
	}

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	if t, ok := scalarTypeNames[name.Lexeme]; ok {
		return t, nil
	}

	if !p.checkOp("[") {
		// Bare struct/union name.
		return &ast.Type{Tag: ast.TStruct, Name: name.Lexeme}, nil
	}

	p.advance() // '['

	switch name.Lexeme {
	case "Ptr":
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.PtrTo(elem), nil

	case "Optional":
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.OptionalOf(elem), nil

	case "List":
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.ListOf(elem), nil

	case "Array":
		n, err := p.parseIntConst()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ","); err != nil {
			return nil, err
		}

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.ArrayOf(int(n), elem), nil

	case "Dict":
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ","); err != nil {
			return nil, err
		}

		val, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.DictOf(key, val), nil

	case "Tuple":
		var elems []*ast.Type

		for !p.checkOp("]") {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}

			elems = append(elems, t)

			if p.checkOp(",") {
				p.advance()
				continue
			}

			break
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.TupleOf(elems...), nil

	case "Fn":
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}

		var params []*ast.Type

		for p.checkOp(",") {
			p.advance()

			t, err := p.parseType()
			if err != nil {
				return nil, err
			}

			params = append(params, t)
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.FnType(ret, params...), nil

	default:
		return nil, p.errorf("unknown generic type %q", name.Lexeme)
	}
}

func (p *Parser) parseIntConst() (int64, error) {
	t, err := p.expect(lexer.INT, "")
	if err != nil {
		return 0, err
	}

	return t.IntValue, nil
}
