// Package main implements tlgen, the offline TL schema code generator.
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"text/template"

	"github.com/tonfleet/liteclient/internal/tlschema"
)

const fileTemplate = `// Code generated by tlgen from {{.SchemaPath}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/tonfleet/liteclient/tl"
{{- if .SumTypes}}
	"fmt"
{{- end}}
)

{{range .Combinators}}
// {{.GoName}} is generated from the schema combinator:
//
//	{{.Canonical}}
type {{.GoName}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}}
{{- end}}
}

// ConstructorNumber returns the combinator's constructor number ({{printf "0x%08x" .Number}}).
func ({{.Receiver}} {{.GoName}}) ConstructorNumber() uint32 { return {{printf "0x%08x" .Number}} }

// Encode serializes {{.GoName}} onto s, writing its constructor tag first.
func ({{.Receiver}} {{.GoName}}) Encode(s *tl.Serializer) {
	s.WriteConstructor({{.Receiver}}.ConstructorNumber())
{{- range .Fields}}
{{- if .IsVector}}
	tl.WriteVector(s, {{.FieldExpr}}, func(s *tl.Serializer, item {{.ElemType}}) { {{.ElemEncodeExpr}} })
{{- else if .IsFlags}}
{{- range .EncodeLines}}
	{{.}}
{{- end}}
{{- else if .IsOptional}}
	if {{.FieldExpr}} != nil {
		{{.EncodeExpr}}
	}
{{- else}}
	{{.EncodeExpr}}
{{- end}}
{{- end}}
}

{{- if not .Functional}}

// Decode{{.GoName}} parses a {{.GoName}} value whose constructor tag has
// already been consumed by the caller (e.g. via ParseConstructor).
func Decode{{.GoName}}(d *tl.Deserializer) ({{.GoName}}, error) {
	var v {{.GoName}}
{{- if .Fields}}
	var err error
{{- end}}
{{- range .Fields}}
{{- if .IsVector}}
	v.{{.GoName}}, err = tl.ParseVector(d, func(d *tl.Deserializer) ({{.ElemType}}, error) { return {{.ElemDecodeExpr}} })
	if err != nil {
		return v, err
	}
{{- else if .IsOptional}}
	if v.{{.FlagsGoName}}&(1<<{{.FlagsBit}}) != 0 {
		val, err2 := {{.DecodeExpr}}
		if err2 != nil {
			return v, err2
		}
		v.{{.GoName}} = &val
	}
{{- else}}
	v.{{.GoName}}, err = {{.DecodeExpr}}
	if err != nil {
		return v, err
	}
{{- end}}
{{- end}}
	return v, nil
}
{{- end}}
{{- if .SumMarker}}

// {{.SumMarker}} marks {{.GoName}} as one variant of its boxed result type.
func ({{.Receiver}} {{.GoName}}) {{.SumMarker}}() {}
{{- end}}
{{end}}

{{range .SumTypes}}
{{$sum := .}}
// {{.GoName}} is one of several constructors the schema allows for the
// result type {{.ResultName}}. A field or return value typed {{.GoName}}
// may hold any of its variants; the wire constructor tag says which.
type {{.GoName}} interface {
	{{.MarkerName}}()
	Encode(s *tl.Serializer)
}

// Decode{{.GoName}} reads the constructor tag itself, unlike the
// per-combinator Decode functions which assume the caller already consumed
// it via ParseConstructor or PeekConstructor, and dispatches to whichever
// variant the tag names.
func Decode{{.GoName}}(d *tl.Deserializer) ({{.GoName}}, error) {
	num, err := d.ParseConstructor()
	if err != nil {
		return nil, err
	}
	switch num {
{{- range .Variants}}
	case {{printf "0x%08x" .Number}}:
		return Decode{{.GoName}}(d)
{{- end}}
	default:
		return nil, fmt.Errorf("tl: unknown constructor %#08x for {{$sum.GoName}}", num)
	}
}
{{end}}
`

type fieldView struct {
	GoName         string
	GoType         string
	FieldExpr      string // receiver-qualified accessor, e.g. "v.Mode"
	IsVector       bool
	IsOptional     bool
	ElemType       string
	EncodeExpr     string
	DecodeExpr     string
	ElemEncodeExpr string
	ElemDecodeExpr string

	// Conditional (flags.N?) fields: the Go name of the flags field
	// this one is gated on, and the bit within it.
	FlagsGoName string
	FlagsBit    int

	// IsFlags marks a "#" field that other fields of the combinator are
	// conditional on; EncodeLines computes its effective value so a
	// present optional field sets its bit on write.
	IsFlags     bool
	EncodeLines []string
}

type combinatorView struct {
	GoName     string
	SchemaName string
	Canonical  string
	Number     uint32
	Receiver   string
	Functional bool
	Fields     []fieldView
	// SumMarker, when non-empty, is the marker method name this
	// combinator implements because its result type has more than one
	// non-functional combinator and so needs a generated sum type.
	SumMarker string
}

// sumVariant is one constructor belonging to a generated sum type.
type sumVariant struct {
	GoName string
	Number uint32
}

// sumTypeView is a generated interface type for a schema result type with
// multiple non-functional combinators (see tlschema.Schema.ResultGroups).
type sumTypeView struct {
	GoName     string
	ResultName string
	MarkerName string
	Variants   []sumVariant
}

type fileView struct {
	SchemaPath  string
	Package     string
	Combinators []combinatorView
	SumTypes    []sumTypeView
}

// primitiveEncodeExpr returns the Serializer method call for a scalar param type.
func primitiveEncodeExpr(receiver, fieldExpr, typ string) string {
	switch typ {
	case "int":
		return fmt.Sprintf("s.WriteInt32(%s)", fieldExpr)
	case "long":
		return fmt.Sprintf("s.WriteInt64(%s)", fieldExpr)
	case "double":
		return fmt.Sprintf("s.WriteDouble(%s)", fieldExpr)
	case "bytes", "string":
		return fmt.Sprintf("s.WriteBytes([]byte(%s))", fieldExpr)
	case "int256":
		return fmt.Sprintf("s.WriteInt256(%s)", fieldExpr)
	case "#":
		return fmt.Sprintf("s.WriteNatural(%s)", fieldExpr)
	default:
		return fmt.Sprintf("%s.Encode(s)", fieldExpr)
	}
}

func primitiveDecodeExpr(typ string) string {
	switch typ {
	case "int":
		return "d.ParseInt32()"
	case "long":
		return "d.ParseInt64()"
	case "double":
		return "d.ParseDouble()"
	case "bytes", "string":
		return "d.ParseString()"
	case "int256":
		return "d.ParseInt256()"
	case "#":
		return "d.ParseNatural()"
	default:
		return fmt.Sprintf("Decode%s(d)", tlschema.BoxedTypeName(typ))
	}
}

// buildFileView turns a parsed schema into the data the template renders.
func buildFileView(schemaPath, pkg string, schema *tlschema.Schema) fileView {
	fv := fileView{SchemaPath: schemaPath, Package: pkg}

	// sumMarkers maps a schema result type to the marker method its
	// variants implement, for every result type with more than one
	// non-functional combinator.
	sumMarkers := make(map[string]string)
	groups := schema.ResultGroups()
	var results []string
	for result, combos := range groups {
		if len(combos) > 1 {
			results = append(results, result)
		}
	}
	sort.Strings(results)
	for _, result := range results {
		sumMarkers[result] = "is" + tlschema.BoxedTypeName(result)
	}

	all := append(append([]tlschema.Combinator{}, schema.Types...), schema.Functions...)
	sort.Slice(all, func(i, j int) bool { return all[i].FullName() < all[j].FullName() })

	for _, c := range all {
		cv := combinatorView{
			GoName:     tlschema.GoTypeName(c.FullName()),
			SchemaName: c.FullName(),
			Canonical:  tlschema.CanonicalForm(c),
			Number:     tlschema.ResolveNumber(c),
			Receiver:   "v",
			Functional: c.Functional,
			SumMarker:  sumMarkers[c.Result],
		}

		// flagDeps maps a flags field's schema name to the (bit, field)
		// pairs conditional on it, so its Encode computes the effective
		// value rather than trusting the struct field blindly.
		flagDeps := make(map[string][]tlschema.Param)
		for _, p := range c.Params {
			if p.Optional {
				flagDeps[p.FlagsField] = append(flagDeps[p.FlagsField], p)
			}
		}

		for _, p := range c.Params {
			fieldExpr := "v." + tlschema.GoFieldName(p.Name)
			fv2 := fieldView{
				GoName:     tlschema.GoFieldName(p.Name),
				GoType:     tlschema.GoFieldType(p),
				FieldExpr:  fieldExpr,
				IsVector:   p.Vector,
				IsOptional: p.Optional && !p.Vector,
			}
			switch {
			case p.Vector:
				fv2.ElemType = tlschema.GoFieldType(tlschema.Param{Type: p.Elem})
				fv2.ElemEncodeExpr = primitiveEncodeExpr("s", "item", p.Elem)
				fv2.ElemDecodeExpr = primitiveDecodeExpr(p.Elem)
			case p.Optional:
				fv2.FlagsGoName = tlschema.GoFieldName(p.FlagsField)
				fv2.FlagsBit = p.FlagsBit
				fv2.EncodeExpr = primitiveEncodeExpr("s", "(*"+fieldExpr+")", p.Type)
				fv2.DecodeExpr = primitiveDecodeExpr(p.Type)
			case p.Type == "#" && len(flagDeps[p.Name]) > 0:
				fv2.IsFlags = true
				local := tlschema.GoFieldName(p.Name) + "Bits"
				lines := []string{fmt.Sprintf("%s := %s", local, fieldExpr)}
				for _, dep := range flagDeps[p.Name] {
					lines = append(lines, fmt.Sprintf("if v.%s != nil {", tlschema.GoFieldName(dep.Name)),
						fmt.Sprintf("\t%s |= 1 << %d", local, dep.FlagsBit),
						"}")
				}
				lines = append(lines, fmt.Sprintf("s.WriteNatural(%s)", local))
				fv2.EncodeLines = lines
				fv2.DecodeExpr = primitiveDecodeExpr(p.Type)
			default:
				fv2.EncodeExpr = primitiveEncodeExpr("s", fieldExpr, p.Type)
				fv2.DecodeExpr = primitiveDecodeExpr(p.Type)
			}
			cv.Fields = append(cv.Fields, fv2)
		}
		fv.Combinators = append(fv.Combinators, cv)
	}

	for _, result := range results {
		combos := append([]tlschema.Combinator{}, groups[result]...)
		sort.Slice(combos, func(i, j int) bool { return combos[i].FullName() < combos[j].FullName() })
		st := sumTypeView{
			GoName:     tlschema.BoxedTypeName(result),
			ResultName: result,
			MarkerName: sumMarkers[result],
		}
		for _, c := range combos {
			st.Variants = append(st.Variants, sumVariant{
				GoName: tlschema.GoTypeName(c.FullName()),
				Number: tlschema.ResolveNumber(c),
			})
		}
		fv.SumTypes = append(fv.SumTypes, st)
	}
	return fv
}

// Render renders schema into formatted Go source for package pkg.
func Render(schemaPath, pkg string, schema *tlschema.Schema) ([]byte, error) {
	tmpl, err := template.New("tlgen").Parse(fileTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildFileView(schemaPath, pkg, schema)); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gofmt generated source: %w\n---\n%s", err, buf.String())
	}
	return formatted, nil
}
