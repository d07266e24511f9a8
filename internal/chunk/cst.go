package chunk

// Tree represents a parsed concrete syntax tree.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
}

// Node represents a node in the CST.
type Node struct {
	Type       string
	FieldName  string // grammar field name this node occupies in its parent, if any
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
	Children   []*Node
	HasError   bool
}

// Point is a zero-indexed row/column position in the source.
type Point struct {
	Row    uint32
	Column uint32
}

// GetContent returns the source slice covered by n.
func (n *Node) GetContent(source []byte) string {
	if n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

// FindChildByType finds the first direct child with the given type.
func (n *Node) FindChildByType(nodeType string) *Node {
	for _, child := range n.Children {
		if child.Type == nodeType {
			return child
		}
	}
	return nil
}

// Walk traverses the tree depth-first, calling fn for each node; fn
// returns false to prune that subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// LanguageConfig names the boundary node types and the name-extraction
// field for one language.
type LanguageConfig struct {
	Name       string
	Extensions []string

	// BoundaryTypes lists every CST node type that marks a chunk
	// boundary for this language (functions, classes, methods,
	// interfaces, type/const/var declarations, imports...).
	BoundaryTypes []string

	// NameField is the field name tree-sitter exposes for a boundary
	// node's identifier child (usually "name").
	NameField string
}
