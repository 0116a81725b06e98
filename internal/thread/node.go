package thread

import (
	"fmt"
	"iter"
	"weak"
)

// LookupError is returned by Materialize when the forest references an id that
// has no payload.
type LookupError struct {
	ID any
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("thread: no payload for id %v", e.ID)
}

// DuplicateIDError is returned by Materialize when an id occurs more than once in
// the forest.
type DuplicateIDError struct {
	ID any
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("thread: id %v occurs more than once", e.ID)
}

// Node is a materialized tree node. Children are owned by the node, the parent
// is only a weak back-reference: it can be used to walk up the tree but does not
// keep the parent alive.
type Node[P any] struct {
	Payload  P          `json:"payload" yaml:"payload"`
	Children []*Node[P] `json:"children,omitempty" yaml:"children,omitempty"`

	parent weak.Pointer[Node[P]]
}

// Parent returns the parent of the node, nil for roots and for nodes whose
// parent is no longer referenced by anything.
func (n *Node[P]) Parent() *Node[P] {
	return n.parent.Value()
}

// Ancestors yields the ancestors of the node, nearest first.
func (n *Node[P]) Ancestors() iter.Seq[*Node[P]] {
	return func(yield func(*Node[P]) bool) {
		for current := n.Parent(); current != nil; current = current.Parent() {
			if !yield(current) {
				return
			}
		}
	}
}

// Depth is the amount of ancestors the node has, roots have a depth of 0.
func (n *Node[P]) Depth() int {
	depth := 0
	for range n.Ancestors() {
		depth++
	}
	return depth
}

// Materialize attaches payloads to the shape of the forest. Each payload is
// removed from the map once it has been attached to a node.
//
// The whole call fails if an id is missing from payloads or occurs twice, a
// partial tree is never returned.
func Materialize[ID comparable, P any](forest Forest[ID], payloads map[ID]P) ([]*Node[P], error) {
	m := materializer[ID, P]{
		payloads: payloads,
		seen:     make(map[ID]struct{}, len(payloads)),
	}
	roots, err := m.nodes(forest.Roots)
	if err != nil {
		return nil, err
	}
	return roots, nil
}

type materializer[ID comparable, P any] struct {
	payloads map[ID]P
	seen     map[ID]struct{}
}

func (m materializer[ID, P]) take(id ID) (P, error) {
	payload, ok := m.payloads[id]
	if !ok {
		var zero P
		if _, dup := m.seen[id]; dup {
			return zero, &DuplicateIDError{ID: id}
		}
		return zero, &LookupError{ID: id}
	}
	delete(m.payloads, id)
	m.seen[id] = struct{}{}
	return payload, nil
}

func (m materializer[ID, P]) nodes(shape []Subtree[ID]) ([]*Node[P], error) {
	if len(shape) == 0 {
		return nil, nil
	}
	out := make([]*Node[P], len(shape))
	for i, s := range shape {
		payload, err := m.take(s.Value)
		if err != nil {
			return nil, err
		}
		node := &Node[P]{Payload: payload}

		children, err := m.nodes(s.Children)
		if err != nil {
			return nil, err
		}
		ref := weak.Make(node)
		for _, c := range children {
			c.parent = ref
		}
		node.Children = children

		out[i] = node
	}
	return out, nil
}

// Walk yields every node of the given trees in pre-order along with its depth
// relative to roots.
func Walk[P any](roots []*Node[P]) iter.Seq2[int, *Node[P]] {
	return func(yield func(int, *Node[P]) bool) {
		type frame struct {
			node  *Node[P]
			depth int
		}
		stack := make([]frame, 0, len(roots))
		for i := len(roots) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: roots[i]})
		}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(top.depth, top.node) {
				return
			}
			for i := len(top.node.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: top.node.Children[i], depth: top.depth + 1})
			}
		}
	}
}
