package chunk

// ExtractBoundaries walks tree and emits one Boundary per outermost
// occurrence of a node type in cfg.BoundaryTypes. Once a boundary node
// is found, its descendants are traversed with the insideBoundary flag
// set so nested boundary-shaped nodes (e.g. a method inside a class) are
// never re-emitted — the outer node alone becomes the chunk.
func ExtractBoundaries(tree *Tree, cfg *LanguageConfig) []Boundary {
	boundarySet := make(map[string]bool, len(cfg.BoundaryTypes))
	for _, t := range cfg.BoundaryTypes {
		boundarySet[t] = true
	}

	var out []Boundary
	var walk func(n *Node, ancestors []*Node, insideBoundary bool)
	walk = func(n *Node, ancestors []*Node, insideBoundary bool) {
		if n == nil {
			return
		}
		isBoundary := boundarySet[n.Type]
		if isBoundary && !insideBoundary {
			start, end := n.StartByte, n.EndByte
			if s, e, ok := expandedStatementRange(n, ancestors); ok {
				start, end = s, e
			}
			out = append(out, Boundary{
				Type:        n.Type,
				Name:        extractName(n, parentOf(ancestors), cfg.NameField, tree.Source),
				StartOffset: int(start),
				EndOffset:   int(end),
				Text:        string(tree.Source[start:end]),
			})
		}
		childInside := insideBoundary || isBoundary
		childAncestors := make([]*Node, len(ancestors)+1)
		copy(childAncestors, ancestors)
		childAncestors[len(ancestors)] = n
		for _, child := range n.Children {
			walk(child, childAncestors, childInside)
		}
	}
	walk(tree.Root, nil, false)
	return out
}

func parentOf(ancestors []*Node) *Node {
	if len(ancestors) == 0 {
		return nil
	}
	return ancestors[len(ancestors)-1]
}

// expandedStatementRange widens a boundary's text span from the
// boundary node itself to its enclosing declaration statement when the
// node is a sole anonymous-function initializer bound to a name one
// level up, e.g. JS/TS `const b = () => {}`: the grammar's
// arrow_function node covers only `() => {}`, with the name and the
// `const`/`let`/`var` keyword living on the surrounding
// variable_declarator/lexical_declaration — but the chunk readers of
// this boundary expect the text of the whole binding, not just the
// function literal. Only applies when the declaration binds exactly one
// name, so a multi-declarator statement (`const a = 1, b = () => {}`)
// is left alone rather than over-capturing sibling bindings.
func expandedStatementRange(n *Node, ancestors []*Node) (uint32, uint32, bool) {
	if n.Type != "arrow_function" || len(ancestors) < 2 {
		return 0, 0, false
	}
	declarator := ancestors[len(ancestors)-1]
	statement := ancestors[len(ancestors)-2]
	if declarator.Type != "variable_declarator" {
		return 0, 0, false
	}
	if statement.Type != "lexical_declaration" && statement.Type != "variable_declaration" {
		return 0, 0, false
	}
	declarators := 0
	for _, c := range statement.Children {
		if c.Type == "variable_declarator" {
			declarators++
		}
	}
	if declarators != 1 {
		return 0, 0, false
	}
	return statement.StartByte, statement.EndByte, true
}

// extractName looks up the child tree-sitter exposes via the grammar
// field named nameField (e.g. "name" for most grammars, "declarator"
// for C/C++) and returns its source text. Function expressions and
// arrow functions bound to a variable (`const b = () => {}`) carry no
// name field of their own — tree-sitter attaches the identifier to the
// enclosing declarator instead — so as a last resort this looks at the
// boundary node's immediate parent for a "name" field.
func extractName(n, parent *Node, nameField string, source []byte) string {
	if nameField != "" {
		for _, child := range n.Children {
			if child.FieldName == nameField {
				return child.GetContent(source)
			}
		}
	}
	if child := n.FindChildByType("identifier"); child != nil {
		return child.GetContent(source)
	}
	if parent != nil {
		for _, sibling := range parent.Children {
			if sibling.FieldName == "name" {
				return sibling.GetContent(source)
			}
		}
	}
	return ""
}
