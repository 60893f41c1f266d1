package tlschema

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a .tl schema file's contents and returns its parsed form.
//
// This is a hand-rolled recursive-descent-by-statement parser rather
// than a parser-combinator grammar: the TL declaration language is a
// small, line-oriented format, and a line-oriented reader in the same
// style as internal/config's own parsing fits it without pulling in a
// combinator library for a format this size.
func Parse(src string) (*Schema, error) {
	stmts, err := splitStatements(stripComments(src))
	if err != nil {
		return nil, err
	}

	schema := &Schema{}
	functional := false
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if section, ok := sectionMarker(stmt); ok {
			functional = section == "functions"
			continue
		}

		c, err := parseCombinator(stmt)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", stmt, err)
		}
		c.Functional = functional
		if functional {
			schema.Functions = append(schema.Functions, c)
		} else {
			schema.Types = append(schema.Types, c)
		}
	}
	return schema, nil
}

// stripComments removes "// ..." line comments and "/* ... */" block
// comments, preserving statement structure (newlines become spaces so
// offsets of the remaining text stay easy to reason about).
func stripComments(src string) string {
	var b strings.Builder
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		switch {
		case i+1 < len(runes) && runes[i] == '/' && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			b.WriteByte(' ')
		case i+1 < len(runes) && runes[i] == '/' && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			b.WriteByte(' ')
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// splitStatements splits on top-level ';' separators. Section markers
// ("---types---") are not semicolon-terminated in the reference grammar,
// so they're recognized as their own statement by scanning line by line
// first and only then splitting the remainder on ';'. A declaration may
// span several lines; its lines are joined with single spaces.
func splitStatements(src string) ([]string, error) {
	var stmts []string
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "---") {
			stmts = append(stmts, ";"+trimmed+";")
			continue
		}
		stmts = append(stmts, line)
	}
	joined := strings.Join(stmts, "\n")

	var out []string
	for _, part := range strings.Split(joined, ";") {
		sub := strings.Join(strings.Fields(part), " ")
		if sub != "" {
			out = append(out, sub)
		}
	}
	return out, nil
}

func sectionMarker(stmt string) (string, bool) {
	trimmed := strings.Trim(stmt, "- ")
	switch trimmed {
	case "types":
		return "types", true
	case "functions":
		return "functions", true
	}
	return "", false
}

// parseCombinator parses one declaration of the form:
//
//	name#hexnum field:type field2:flags.N?type2 = ResultType
func parseCombinator(stmt string) (Combinator, error) {
	eqIdx := strings.LastIndex(stmt, "=")
	if eqIdx < 0 {
		return Combinator{}, fmt.Errorf("missing '=' result separator")
	}
	head := strings.TrimSpace(stmt[:eqIdx])
	result := strings.TrimSpace(stmt[eqIdx+1:])
	if result == "" {
		return Combinator{}, fmt.Errorf("empty result type")
	}

	tokens := splitFields(head)
	if len(tokens) == 0 {
		return Combinator{}, fmt.Errorf("missing combinator name")
	}

	nameTok := tokens[0]
	var c Combinator
	c.Result = result

	if hashIdx := strings.IndexByte(nameTok, '#'); hashIdx >= 0 {
		num, err := strconv.ParseUint(nameTok[hashIdx+1:], 16, 32)
		if err != nil {
			return Combinator{}, fmt.Errorf("bad constructor number in %q: %w", nameTok, err)
		}
		c.Number = uint32(num)
		c.Explicit = true
		nameTok = nameTok[:hashIdx]
	}

	if dot := strings.LastIndex(nameTok, "."); dot >= 0 {
		c.Namespace = nameTok[:dot]
		c.Name = nameTok[dot+1:]
	} else {
		c.Name = nameTok
	}
	if c.Name == "" {
		return Combinator{}, fmt.Errorf("empty combinator name")
	}

	for _, tok := range tokens[1:] {
		p, err := parseParam(tok)
		if err != nil {
			return Combinator{}, fmt.Errorf("field %q: %w", tok, err)
		}
		c.Params = append(c.Params, p)
	}
	return c, nil
}

// splitFields splits a combinator head on whitespace, keeping "{...}"
// bracketed field groups (used for type-parameter binders) intact.
func splitFields(head string) []string {
	var tokens []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range head {
		switch {
		case r == '{':
			depth++
			cur.WriteRune(r)
		case r == '}':
			depth--
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			if depth == 0 {
				flush()
			} else {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseParam parses one "name:type" field, recognizing the flags.N?
// conditional prefix and vector<T>/T[] repetition markers.
func parseParam(tok string) (Param, error) {
	tok = strings.Trim(tok, "{}")

	colon := strings.IndexByte(tok, ':')
	if colon < 0 {
		return Param{}, fmt.Errorf("missing ':' in field declaration")
	}
	p := Param{Name: tok[:colon]}
	rest := tok[colon+1:]

	if qIdx := strings.IndexByte(rest, '?'); qIdx >= 0 {
		cond := rest[:qIdx]
		rest = rest[qIdx+1:]
		dot := strings.LastIndex(cond, ".")
		if dot < 0 {
			return Param{}, fmt.Errorf("bad flags condition %q", cond)
		}
		bit, err := strconv.Atoi(cond[dot+1:])
		if err != nil {
			return Param{}, fmt.Errorf("bad flags bit in %q: %w", cond, err)
		}
		p.FlagsField = cond[:dot]
		p.FlagsBit = bit
		p.Optional = true
	}

	switch {
	case strings.HasPrefix(rest, "vector<") && strings.HasSuffix(rest, ">"):
		p.Vector = true
		p.Elem = strings.TrimSuffix(strings.TrimPrefix(rest, "vector<"), ">")
	case strings.HasSuffix(rest, "[]"):
		p.Vector = true
		p.Elem = strings.TrimSuffix(rest, "[]")
	default:
		p.Type = rest
	}
	return p, nil
}
