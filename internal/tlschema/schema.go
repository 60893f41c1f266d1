// Package tlschema parses the TL schema grammar into an in-memory
// representation the schema code generator (cmd/tlgen) renders into Go
// source.
package tlschema

// Param is one field of a combinator: either a plain `name:type` field, or
// a conditional field `name:flags.N?type` that maps to an optional value.
type Param struct {
	Name string
	Type string

	// FlagsField and FlagsBit are set when this param is declared with a
	// `flags.N?` condition; the field is present iff bit FlagsBit of the
	// combinator's FlagsField is set.
	FlagsField string
	FlagsBit   int
	Optional   bool

	// Vector is true when Type names a `vector<T>` or `T[]` repetition;
	// Elem holds the element type in that case.
	Vector bool
	Elem   string
}

// Combinator is one parsed schema declaration:
//
//	name#hexnum field:type ... = ResultType;
type Combinator struct {
	Namespace string // dotted prefix before the last component, e.g. "liteServer"
	Name      string // the combinator's own name, e.g. "getBlock"
	Params    []Param
	Result    string // the combinator's result type, e.g. "liteServer.BlockData"

	// Number is the constructor number: either explicitly declared with
	// #hex, or computed at generation time as the CRC-32 of the
	// canonical textual form.
	Number   uint32
	Explicit bool

	// Functional marks a combinator declared after "---functions---": it
	// is a request whose Result names the response type, rather than a
	// value constructor.
	Functional bool
}

// FullName returns the combinator's dotted name, e.g. "liteServer.getBlock".
func (c Combinator) FullName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// Schema is the parsed form of one .tl schema file.
type Schema struct {
	Types     []Combinator
	Functions []Combinator
}

// ResultGroups groups non-functional combinators by their declared result
// type. A result type with more than one combinator needs a generated sum
// type; a result type with exactly one combinator can be represented
// directly by its struct.
func (s *Schema) ResultGroups() map[string][]Combinator {
	groups := make(map[string][]Combinator)
	for _, c := range s.Types {
		groups[c.Result] = append(groups[c.Result], c)
	}
	return groups
}
