package ast

// Visitor is called for every node reached by Walk. If Visit returns a
// non-nil Visitor, Walk recurses into the node's children using it.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// VisitorFunc is a function implementing Visitor.
type VisitorFunc func(n Node) Visitor

// Visit implements Visitor.
func (f VisitorFunc) Visit(n Node) Visitor { return f(n) }

// Walk visits node and, if the Visitor wants to descend, its children,
// recursively.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	node.Walk(v)
}
