package tlschema

import "strings"

// GoTypeName mangles a dotted schema name ("liteServer.getBlock") into an
// exported Go identifier ("LiteServer_GetBlock"): each dotted component
// is capitalized and joined with '_' so the generated name stays
// traceable back to its schema namespace without collisions between
// similarly-named combinators in different namespaces.
func GoTypeName(dotted string) string {
	parts := strings.Split(dotted, ".")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, "_")
}

// GoFieldName mangles a schema field name ("random_id") into an exported
// Go struct field name ("RandomId").
func GoFieldName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// BoxedTypeName mangles a dotted schema type reference the way GoTypeName
// does, but additionally applies the boxed/bare naming rule: a reference
// whose final dotted component already starts with an uppercase letter in
// the schema (a result type, e.g. "liteServer.BlockData") names a boxed
// value that may have more than one constructor on the wire, so its Go
// name is prefixed with "Boxed". A reference whose final component starts
// lowercase (a specific combinator, e.g. "liteServer.accountId") is bare:
// it names exactly one constructor, so no prefix is added.
func BoxedTypeName(dotted string) string {
	last := dotted
	if i := strings.LastIndex(dotted, "."); i >= 0 {
		last = dotted[i+1:]
	}
	if last != "" && last[0] >= 'A' && last[0] <= 'Z' {
		return "Boxed" + GoTypeName(dotted)
	}
	return GoTypeName(dotted)
}

// GoFieldType maps a TL primitive/reference type name to the Go type the
// generator emits for it.
func GoFieldType(p Param) string {
	var base string
	switch {
	case p.Vector:
		base = "[]" + GoFieldType(Param{Type: p.Elem})
	default:
		switch p.Type {
		case "int":
			base = "int32"
		case "long":
			base = "int64"
		case "double":
			base = "float64"
		case "bytes", "string":
			base = "string"
		case "int256":
			base = "[32]byte"
		case "#":
			base = "uint32"
		case "Bool", "bool":
			base = "bool"
		default:
			// A reference to another schema type: use its mangled Go name,
			// applying the boxed/bare naming rule for capitalized (result
			// type) references.
			base = BoxedTypeName(p.Type)
		}
	}
	if p.Optional && !p.Vector {
		return "*" + base
	}
	return base
}
