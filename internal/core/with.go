package core

import (
	"strconv"
	"strings"
)

// defaultCTEPrefix names generated CTE aliases when none is configured.
const defaultCTEPrefix = "cte"

// WithStatement composes a base statement with common table expressions.
// Children may themselves be WithStatements; flattening expands them in place
// so the final statement carries a single WITH clause. A WithStatement
// implements Node by delegating to its base, so it can stand in anywhere the
// base statement could.
type WithStatement struct {
	base     Node
	children []Node
	prefix   string
}

// AddWith appends CTE children. Order is preserved and determines the
// generated aliases.
func (ws *WithStatement) AddWith(children ...Node) *WithStatement {
	ws.children = append(ws.children, children...)
	return ws
}

// Prefix overrides the alias prefix used for generated CTE names.
func (ws *WithStatement) Prefix(p string) *WithStatement {
	ws.prefix = p
	return ws
}

// Base returns the statement the CTEs are attached to.
func (ws *WithStatement) Base() Node {
	return ws.base
}

// Clone returns a copy with an independent child list. The child statements
// themselves are shared; clone them individually before mutating.
func (ws *WithStatement) Clone() *WithStatement {
	return &WithStatement{
		base:     ws.base,
		children: append([]Node(nil), ws.children...),
		prefix:   ws.prefix,
	}
}

// Flatten expands nested WithStatements and returns the dense, deduplicated
// CTE list, assigning each child its positional alias (prefix_0, prefix_1,
// ...). A child appearing more than once keeps its first alias and position;
// aliases never have gaps. Flattening is stable across repeated calls.
func (ws *WithStatement) Flatten() []Node {
	prefix := ws.prefix
	if prefix == "" {
		prefix = defaultCTEPrefix
	}

	var out []Node
	seen := make(map[Node]bool)
	ws.flattenInto(&out, seen, prefix)
	return out
}

// flattenInto walks children in order. A nested WithStatement contributes its
// own children first, then its base, all aliased with the root prefix.
func (ws *WithStatement) flattenInto(out *[]Node, seen map[Node]bool, prefix string) {
	for _, child := range ws.children {
		if nested, ok := child.(*WithStatement); ok {
			nested.flattenInto(out, seen, prefix)
			child = nested.base
		}
		if seen[child] {
			continue
		}
		seen[child] = true
		child.SetWithAlias(prefix + "_" + strconv.Itoa(len(*out)))
		*out = append(*out, child)
	}
}

// compile renders the statement with "?" placeholders: the WITH clause in
// child order, then the base statement. CTE parameters precede base
// parameters. With no children the base compiles alone.
func (ws *WithStatement) compile() (string, []interface{}) {
	children := ws.Flatten()
	if len(children) == 0 {
		return ws.base.compile()
	}

	var params []interface{}
	clauses := make([]string, len(children))
	aliases := make([]string, len(children))
	for i, child := range children {
		childSQL, childParams := child.compile()
		clauses[i] = child.WithAlias() + " AS (" + childSQL + ")"
		aliases[i] = child.WithAlias()
		params = append(params, childParams...)
	}

	ws.base.AddExtraTables(aliases...)
	baseSQL, baseParams := ws.base.compile()
	params = append(params, baseParams...)

	return "WITH " + strings.Join(clauses, ", ") + " " + baseSQL, params
}

// Build compiles the composed statement into an executable Query bound the
// same way the base statement is bound.
func (ws *WithStatement) Build() *Query {
	sqlText, params := ws.compile()
	return ws.baseStatement().newQuery(sqlText, params)
}

// baseStatement unwraps to the innermost non-With base for query binding.
func (ws *WithStatement) baseStatement() interface {
	newQuery(string, []interface{}) *Query
} {
	base := ws.base
	for {
		nested, ok := base.(*WithStatement)
		if !ok {
			break
		}
		base = nested.base
	}
	return base.(interface {
		newQuery(string, []interface{}) *Query
	})
}

// Tables delegates to the base statement.
func (ws *WithStatement) Tables() []string {
	return ws.base.Tables()
}

// WithAlias delegates to the base statement.
func (ws *WithStatement) WithAlias() string {
	return ws.base.WithAlias()
}

// SetWithAlias delegates to the base statement.
func (ws *WithStatement) SetWithAlias(alias string) {
	ws.base.SetWithAlias(alias)
}

// AddExtraTables delegates to the base statement.
func (ws *WithStatement) AddExtraTables(names ...string) {
	ws.base.AddExtraTables(names...)
}
