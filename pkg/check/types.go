package check

import "github.com/ruapotato/Pynux/pkg/ast"

// resolveNamedTypes fills in field layout for every struct/union declared
// in this unit. Stub Type values are registered first so that
// self-referential layouts (a struct with a Ptr[T] field back to itself,
// the linked-list shape) terminate instead of recursing forever.
func (c *Checker) resolveNamedTypes() error {
	for name := range c.structs {
		c.resolvedTypes[name] = &ast.Type{Tag: ast.TStruct, Name: name}
	}

	for name := range c.unions {
		c.resolvedTypes[name] = &ast.Type{Tag: ast.TUnion, Name: name}
	}

	for name, sd := range c.structs {
		fields, err := c.layoutFields(sd.Fields, sd.Packed)
		if err != nil {
			return err
		}

		t := c.resolvedTypes[name]
		t.Fields = fields
		t.Packed = sd.Packed
	}

	for name, ud := range c.unions {
		fields, err := c.layoutUnionFields(ud.Fields)
		if err != nil {
			return err
		}

		c.resolvedTypes[name].Fields = fields
	}

	// A class's layout is its bases' flattened fields, in base order,
	// followed by its own.
	var classParams func(cd *ast.ClassDef, depth int) []ast.Param
	classParams = func(cd *ast.ClassDef, depth int) []ast.Param {
		var params []ast.Param

		for _, b := range cd.Bases {
			if base, ok := c.classes[b]; ok && depth < len(c.classes) {
				params = append(params, classParams(base, depth+1)...)
			}
		}

		return append(params, cd.Fields...)
	}

	for _, c2 := range c.classes {
		fields, err := c.layoutFields(classParams(c2, 0), false)
		if err != nil {
			return err
		}

		c.resolvedTypes[c2.Name] = &ast.Type{Tag: ast.TStruct, Name: c2.Name, Fields: fields}
	}

	return nil
}

// layoutFields assigns sequential byte offsets to struct fields. Packed
// structs pack fields with no alignment padding; unpacked structs align
// each field to its own size (min 1), matching common C struct layout.
func (c *Checker) layoutFields(params []ast.Param, packed bool) ([]ast.Field, error) {
	var fields []ast.Field

	offset := 0

	for _, p := range params {
		ft, err := c.resolveType(p.Type)
		if err != nil {
			return nil, err
		}

		size := ft.Size()

		if !packed {
			align := size
			if align > 4 {
				align = 4
			}

			if align > 0 {
				offset = (offset + align - 1) / align * align
			}
		}

		fields = append(fields, ast.Field{Name: p.Name, Type: ft, Offset: offset})
		offset += size
	}

	return fields, nil
}

func (c *Checker) layoutUnionFields(params []ast.Param) ([]ast.Field, error) {
	var fields []ast.Field

	for _, p := range params {
		ft, err := c.resolveType(p.Type)
		if err != nil {
			return nil, err
		}

		fields = append(fields, ast.Field{Name: p.Name, Type: ft, Offset: 0})
	}

	return fields, nil
}

// resolveType replaces bare struct/union name placeholders (produced by
// the parser, which cannot see declarations) with the fully laid-out Type,
// recursing into compound type constructors. Scalars pass through
// unchanged.
func (c *Checker) resolveType(t *ast.Type) (*ast.Type, error) {
	if t == nil {
		return nil, nil
	}

	switch t.Tag {
	case ast.TStruct, ast.TUnion:
		if t.Fields != nil {
			return t, nil
		}

		if resolved, ok := c.resolvedTypes[t.Name]; ok {
			return resolved, nil
		}

		return nil, c.errorfAt(t.String(), "unknown type %q", t.Name)

	case ast.TPtr:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}

		return ast.PtrTo(elem), nil

	case ast.TArray:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}

		return ast.ArrayOf(t.Len, elem), nil

	case ast.TOptional:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}

		return ast.OptionalOf(elem), nil

	case ast.TList:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}

		return ast.ListOf(elem), nil

	case ast.TDict:
		key, err := c.resolveType(t.Key)
		if err != nil {
			return nil, err
		}

		val, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}

		return ast.DictOf(key, val), nil

	case ast.TTuple:
		elems := make([]*ast.Type, len(t.Params))

		for i, p := range t.Params {
			e, err := c.resolveType(p)
			if err != nil {
				return nil, err
			}

			elems[i] = e
		}

		return ast.TupleOf(elems...), nil

	case ast.TFn:
		ret, err := c.resolveType(t.Ret)
		if err != nil {
			return nil, err
		}

		params := make([]*ast.Type, len(t.Params))

		for i, p := range t.Params {
			pt, err := c.resolveType(p)
			if err != nil {
				return nil, err
			}

			params[i] = pt
		}

		return ast.FnType(ret, params...), nil

	default:
		return t, nil
	}
}
