// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue/format"
)

// Definition names a schema exported as a CUE definition.
type Definition struct {
	Name   string
	Schema Schema
}

var cueIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Definitions returns the registry schemas in export order.
func Definitions() []Definition {
	return []Definition{
		{Name: "TokenMetadata", Schema: TokenMetadataSchema},
		{Name: "ContractMetadata", Schema: ContractMetadataSchema},
		{Name: "TokenSignature", Schema: TokenSignatureSchema},
	}
}

// GenerateCUE renders defs as CUE definitions in package pkg.
// Required properties use the `!` marker so that unifying a document with a
// definition and validating it concretely reports missing properties.
func GenerateCUE(pkg string, defs ...Definition) ([]byte, error) {
	g := &cueGen{}
	for _, d := range defs {
		fmt.Fprintf(&g.body, "#%s: ", d.Name)
		g.node(d.Schema, 0)
		g.body.WriteString("\n\n")
	}

	var src strings.Builder
	fmt.Fprintf(&src, "package %s\n\n", pkg)
	if g.usesStrings {
		src.WriteString("import \"strings\"\n\n")
	}
	src.WriteString(g.body.String())

	out, err := format.Source([]byte(src.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated CUE: %w", err)
	}
	return out, nil
}

type cueGen struct {
	body        strings.Builder
	usesStrings bool
}

func (g *cueGen) node(s Schema, depth int) {
	switch n := s.(type) {
	case StringSchema:
		g.body.WriteString(g.stringExpr(n))
	case NumberSchema:
		parts := []string{"number"}
		if n.integer {
			parts[0] = "int"
		}
		if n.min != nil {
			parts = append(parts, ">="+formatFloat(*n.min))
		}
		if n.max != nil {
			parts = append(parts, "<="+formatFloat(*n.max))
		}
		g.body.WriteString(strings.Join(parts, " & "))
	case ObjectSchema:
		g.body.WriteString("{\n")
		for _, f := range n.fields {
			g.indent(depth + 1)
			marker := "!"
			if f.Optional {
				marker = "?"
			}
			fmt.Fprintf(&g.body, "%s%s: ", cueLabel(f.Name), marker)
			g.node(f.Schema, depth+1)
			g.body.WriteString("\n")
		}
		if !n.strict {
			g.indent(depth + 1)
			g.body.WriteString("...\n")
		}
		g.indent(depth)
		g.body.WriteString("}")
	case RecordSchema:
		key := "string"
		for _, r := range n.keys.refinements {
			if r.Pattern != "" {
				key = "=~" + strconv.Quote(r.Pattern)
				break
			}
		}
		fmt.Fprintf(&g.body, "{[%s]: ", key)
		g.node(n.values, depth)
		g.body.WriteString("}")
	case ArraySchema:
		g.body.WriteString("[...")
		g.node(n.elem, depth)
		g.body.WriteString("]")
	default:
		g.body.WriteString("_")
	}
}

func (g *cueGen) stringExpr(s StringSchema) string {
	if s.literal != nil {
		return strconv.Quote(*s.literal)
	}

	parts := []string{"string"}
	minLen, maxLen := s.minLen, s.maxLen
	if s.exactLen >= 0 {
		minLen, maxLen = s.exactLen, s.exactLen
	}
	if minLen >= 0 {
		parts = append(parts, fmt.Sprintf("strings.MinRunes(%d)", minLen))
		g.usesStrings = true
	}
	if maxLen >= 0 {
		parts = append(parts, fmt.Sprintf("strings.MaxRunes(%d)", maxLen))
		g.usesStrings = true
	}
	seen := map[string]bool{}
	for _, r := range s.refinements {
		if r.Pattern != "" && !seen[r.Pattern] {
			seen[r.Pattern] = true
			parts = append(parts, "=~"+strconv.Quote(r.Pattern))
		}
	}
	return strings.Join(parts, " & ")
}

func (g *cueGen) indent(depth int) {
	g.body.WriteString(strings.Repeat("\t", depth))
}

func cueLabel(name string) string {
	if cueIdentifier.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
