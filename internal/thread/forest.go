// Package thread turns indentation-encoded listings (like the comment table of a
// forum page, where nesting is only expressed by an indent attribute) into trees.
package thread

// Entry is a single row of a flat listing, Indent is the nesting level the row
// was rendered at.
type Entry[T any] struct {
	Indent int
	Item   T
}

// Subtree is a node of a shape-only tree, it owns its children.
type Subtree[T any] struct {
	Value    T
	Children []Subtree[T]
}

// Forest is the list of top level (indent 0) subtrees in document order.
type Forest[T any] struct {
	Roots []Subtree[T]
	// Dropped is the amount of entries that were discarded because their indent
	// skipped over a level (ex. an indent of 3 directly below an indent of 1).
	Dropped int
}

// Len returns the total amount of nodes in the forest.
func (f Forest[T]) Len() int {
	n := 0
	stack := make([]Subtree[T], 0, len(f.Roots))
	stack = append(stack, f.Roots...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, top.Children...)
	}
	return n
}

type arenaNode[T any] struct {
	value    T
	children []int
}

// Build converts a flat listing into a forest.
//
// An entry becomes a child of the closest preceding entry whose indent is exactly
// one less than its own, entries with an indent of 0 are roots. An entry that is
// deeper than the currently open depth (a "gap") has no parent it could attach
// to. Gap entries are dropped and counted in Forest.Dropped, scanning continues
// at the current depth. Negative indents are treated as 0, so such entries
// become roots.
//
// Build never fails, an empty listing gives an empty forest.
func Build[T any](entries []Entry[T]) Forest[T] {
	forest := Forest[T]{}
	if len(entries) == 0 {
		return forest
	}

	// nodes are appended in document order, so a child always has a larger index
	// than its parent.
	arena := make([]arenaNode[T], 0, len(entries))
	var roots []int
	// open holds the arena indices of the nodes whose subtree is still being
	// collected, open[i] is the node at depth i.
	var open []int

	for _, e := range entries {
		indent := e.Indent
		if indent < 0 {
			indent = 0
		}
		for indent < len(open) {
			open = open[:len(open)-1]
		}
		if indent > len(open) {
			forest.Dropped++
			continue
		}

		idx := len(arena)
		arena = append(arena, arenaNode[T]{value: e.Item})
		if len(open) == 0 {
			roots = append(roots, idx)
		} else {
			parent := open[len(open)-1]
			arena[parent].children = append(arena[parent].children, idx)
		}
		open = append(open, idx)
	}

	built := make([]Subtree[T], len(arena))
	for i := len(arena) - 1; i >= 0; i-- {
		node := arena[i]
		var children []Subtree[T]
		if len(node.children) > 0 {
			children = make([]Subtree[T], len(node.children))
			for j, c := range node.children {
				children[j] = built[c]
			}
		}
		built[i] = Subtree[T]{Value: node.value, Children: children}
	}

	forest.Roots = make([]Subtree[T], len(roots))
	for i, r := range roots {
		forest.Roots[i] = built[r]
	}
	return forest
}
