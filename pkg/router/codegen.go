package router

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// routerImportPath is the import path emitted into generated files.
const routerImportPath = "github.com/trellis-dev/trellis/pkg/router"

// Generator emits a Go source file binding a declaration set into a
// package: a Declarations table the runtime can rebuild from without
// re-scanning the filesystem, one key constant per matchable route for
// reverse URL generation, and a typed params struct with decoder for
// every pattern that captures parameters.
type Generator struct {
	decls []Declaration
	pkg   string
}

// NewGenerator creates a generator emitting package pkg from decls.
func NewGenerator(decls []Declaration, pkg string) *Generator {
	return &Generator{decls: decls, pkg: pkg}
}

// genRoute is one declaration prepared for emission.
type genRoute struct {
	decl    Declaration
	pattern *Pattern
	ident   string
}

// Generate validates the declarations and returns the generated
// source. The output is deterministic for a given declaration set.
func (g *Generator) Generate() (string, error) {
	if !isValidIdentifier(g.pkg) {
		return "", fmt.Errorf("invalid package name %q", g.pkg)
	}
	if _, _, err := BuildWithOptions(g.decls, BuildOptions{AllowOrphanLayouts: true}); err != nil {
		return "", err
	}

	routes := make([]genRoute, 0, len(g.decls))
	for _, d := range g.decls {
		p, err := ParsePattern(d.Pattern)
		if err != nil {
			return "", err
		}
		routes = append(routes, genRoute{decl: d, pattern: p})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].pattern.Raw != routes[j].pattern.Raw {
			return routes[i].pattern.Raw < routes[j].pattern.Raw
		}
		if routes[i].decl.IsLayout != routes[j].decl.IsLayout {
			return !routes[i].decl.IsLayout
		}
		return routes[i].decl.ID < routes[j].decl.ID
	})

	used := make(map[string]bool)
	for i := range routes {
		routes[i].ident = uniqueIdent(identForRoute(routes[i]), used)
	}

	var b strings.Builder
	b.WriteString("// Code generated by trellis gen routes. DO NOT EDIT.\n\n")
	b.WriteString("package " + g.pkg + "\n\n")
	b.WriteString("import (\n")
	b.WriteString("\t\"" + routerImportPath + "\"\n")
	b.WriteString(")\n\n")

	g.writeKeys(&b, routes)
	g.writeDeclarations(&b, routes)
	g.writeParams(&b, routes)

	return b.String(), nil
}

// writeKeys emits one canonical-pattern constant per matchable route.
func (g *Generator) writeKeys(b *strings.Builder, routes []genRoute) {
	var matchable []genRoute
	for _, r := range routes {
		if !r.decl.IsLayout {
			matchable = append(matchable, r)
		}
	}
	if len(matchable) == 0 {
		return
	}

	width := 0
	for _, r := range matchable {
		if len(r.ident) > width {
			width = len(r.ident)
		}
	}

	b.WriteString("// Route keys, usable with Router.Lookup and Router.URLFor.\n")
	b.WriteString("const (\n")
	for _, r := range matchable {
		fmt.Fprintf(b, "\t%-*s = %q\n", width, r.ident, r.pattern.Raw)
	}
	b.WriteString(")\n\n")
}

// writeDeclarations emits the declarations table. Meta is a discovery
// artifact and is not carried into generated code.
func (g *Generator) writeDeclarations(b *strings.Builder, routes []genRoute) {
	b.WriteString("// Declarations returns the route declarations captured at\n")
	b.WriteString("// generation time, ready for Router.Rebuild.\n")
	b.WriteString("func Declarations() []router.Declaration {\n")
	b.WriteString("\treturn []router.Declaration{\n")
	for _, r := range routes {
		fmt.Fprintf(b, "\t\t{ID: %q, Pattern: %q, Content: %q", r.decl.ID, r.pattern.Raw, r.decl.Content)
		if r.decl.IsIndex {
			b.WriteString(", IsIndex: true")
		}
		if r.decl.IsLayout {
			b.WriteString(", IsLayout: true")
		}
		b.WriteString("},\n")
	}
	b.WriteString("\t}\n")
	b.WriteString("}\n")
}

// writeParams emits a typed params struct and decoder for every
// matchable pattern that captures at least one parameter.
func (g *Generator) writeParams(b *strings.Builder, routes []genRoute) {
	for _, r := range routes {
		if r.decl.IsLayout {
			continue
		}
		fields := r.pattern.ParamFields()
		if len(fields) == 0 {
			continue
		}

		type fieldSpec struct {
			name, typ, param string
		}
		specs := make([]fieldSpec, 0, len(fields))
		usedFields := make(map[string]bool)
		nameW, typeW := 0, 0
		for _, f := range fields {
			spec := fieldSpec{
				name:  uniqueIdent(toPascalCase(f.Name), usedFields),
				typ:   "string",
				param: f.Name,
			}
			switch f.Kind {
			case SegmentCatchAll:
				spec.typ = "[]string"
			case SegmentDynamic:
				spec.typ = InferParamType(f.Name)
			}
			if len(spec.name) > nameW {
				nameW = len(spec.name)
			}
			if len(spec.typ) > typeW {
				typeW = len(spec.typ)
			}
			specs = append(specs, spec)
		}

		name := r.ident + "Params"
		b.WriteString("\n")
		fmt.Fprintf(b, "// %s holds the parameters captured by %s.\n", name, r.pattern.Raw)
		fmt.Fprintf(b, "type %s struct {\n", name)
		for _, spec := range specs {
			fmt.Fprintf(b, "\t%-*s %-*s `param:%q`\n", nameW, spec.name, typeW, spec.typ, spec.param)
		}
		b.WriteString("}\n\n")

		fmt.Fprintf(b, "// Decode%s decodes a match result into %s.\n", name, name)
		fmt.Fprintf(b, "func Decode%s(res *router.MatchResult) (%s, error) {\n", name, name)
		fmt.Fprintf(b, "\tvar p %s\n", name)
		b.WriteString("\terr := router.NewParamParser().Parse(res, &p)\n")
		b.WriteString("\treturn p, err\n")
		b.WriteString("}\n")
	}
}

// identForRoute derives a Go identifier from a route's pattern.
func identForRoute(r genRoute) string {
	var b strings.Builder
	for _, seg := range r.pattern.Segments {
		if seg.Kind == SegmentStatic {
			b.WriteString(toPascalCase(seg.Literal))
		} else {
			b.WriteString(toPascalCase(seg.Param))
		}
	}
	name := b.String()
	if name == "" {
		if r.decl.IsIndex {
			name = "Index"
		} else {
			name = "Root"
		}
	}
	if r.decl.IsLayout {
		name += "Layout"
	}
	if !isValidIdentifier(name) {
		name = "Route" + name
	}
	return name
}

// uniqueIdent reserves name in used, appending a numeric suffix on
// collision.
func uniqueIdent(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	used[candidate] = true
	return candidate
}

func toPascalCase(s string) string {
	if s == "" {
		return s
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var result strings.Builder
	for _, part := range parts {
		// Keep common abbreviations fully capitalized.
		upper := strings.ToUpper(part)
		switch upper {
		case "ID", "URL", "API", "HTTP", "UUID":
			result.WriteString(upper)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}

	return result.String()
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
