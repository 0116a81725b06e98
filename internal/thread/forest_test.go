package thread

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func leaf(v rune, children ...Subtree[rune]) Subtree[rune] {
	return Subtree[rune]{Value: v, Children: children}
}

func entries(pairs ...any) []Entry[rune] {
	out := make([]Entry[rune], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Entry[rune]{Indent: pairs[i].(int), Item: pairs[i+1].(rune)})
	}
	return out
}

func requireForest(t testing.TB, expected []Subtree[rune], got Forest[rune]) {
	t.Helper()
	if diff := cmp.Diff(expected, got.Roots, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmpty(t *testing.T) {
	forest := Build[rune](nil)
	require.Len(t, forest.Roots, 0)
	require.Equal(t, 0, forest.Dropped)
	require.Equal(t, 0, forest.Len())
}

func TestBuildSingleton(t *testing.T) {
	forest := Build(entries(0, 'a'))
	requireForest(t, []Subtree[rune]{leaf('a')}, forest)
}

func TestBuildFlatSiblings(t *testing.T) {
	forest := Build(entries(0, 'a', 0, 'b', 0, 'c'))
	requireForest(t, []Subtree[rune]{leaf('a'), leaf('b'), leaf('c')}, forest)
}

func TestBuildNested(t *testing.T) {
	forest := Build(entries(
		0, 'a',
		1, 'b',
		2, 'c',
		1, 'd',
		2, 'e',
		2, 'f',
		0, 'g',
		1, 'h',
		1, 'i',
		0, 'j',
	))
	requireForest(t, []Subtree[rune]{
		leaf('a',
			leaf('b', leaf('c')),
			leaf('d', leaf('e'), leaf('f')),
		),
		leaf('g', leaf('h'), leaf('i')),
		leaf('j'),
	}, forest)
	require.Equal(t, 10, forest.Len())
	require.Equal(t, 0, forest.Dropped)
}

func TestBuildGaps(t *testing.T) {
	cases := []struct {
		name     string
		input    []Entry[rune]
		expected []Subtree[rune]
		dropped  int
	}{
		{
			name:     "gap below a root",
			input:    entries(0, 'a', 2, 'x', 0, 'b'),
			expected: []Subtree[rune]{leaf('a'), leaf('b')},
			dropped:  1,
		},
		{
			name:     "siblings after a gap still attach",
			input:    entries(0, 'a', 2, 'x', 1, 'b'),
			expected: []Subtree[rune]{leaf('a', leaf('b'))},
			dropped:  1,
		},
		{
			name:     "descendants of a gap are dropped with it",
			input:    entries(0, 'a', 1, 'b', 3, 'x', 4, 'y', 2, 'c'),
			expected: []Subtree[rune]{leaf('a', leaf('b', leaf('c')))},
			dropped:  2,
		},
		{
			name:     "first entry not at the top level",
			input:    entries(1, 'x', 0, 'a', 1, 'b'),
			expected: []Subtree[rune]{leaf('a', leaf('b'))},
			dropped:  1,
		},
		{
			name:     "negative indents are treated as top level",
			input:    entries(-3, 'a', 1, 'b'),
			expected: []Subtree[rune]{leaf('a', leaf('b'))},
			dropped:  0,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			forest := Build(test.input)
			requireForest(t, test.expected, forest)
			require.Equal(t, test.dropped, forest.Dropped)
			require.Equal(t, len(test.input)-test.dropped, forest.Len())
		})
	}
}

// randomListing generates a listing without gaps: every indent is at most one
// deeper than the previous one.
func TestBuildNegativeIndent(t *testing.T) {
	forest := Build(entries(0, 'a', 1, 'b', -1, 'c', 1, 'd', -3, 'e'))
	requireForest(t, []Subtree[rune]{
		leaf('a', leaf('b')),
		leaf('c', leaf('d')),
		leaf('e'),
	}, forest)
	require.Equal(t, 0, forest.Dropped)
}

func randomListing(r *rand.Rand, n int) []Entry[int] {
	out := make([]Entry[int], n)
	prev := -1
	for i := range out {
		indent := r.IntN(prev + 2)
		out[i] = Entry[int]{Indent: indent, Item: i}
		prev = indent
	}
	return out
}

func flatten(roots []Subtree[int], depth int, out *[]Entry[int]) {
	for _, r := range roots {
		*out = append(*out, Entry[int]{Indent: depth, Item: r.Value})
		flatten(r.Children, depth+1, out)
	}
}

func TestBuildPreservesListing(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		input := randomListing(r, r.IntN(64))
		forest := Build(input)

		require.Equal(t, 0, forest.Dropped)
		require.Equal(t, len(input), forest.Len())

		// a pre-order walk of the forest gives back the exact listing, which
		// also means sibling order follows input order.
		var roundtrip []Entry[int]
		flatten(forest.Roots, 0, &roundtrip)
		if diff := cmp.Diff(input, roundtrip, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("listing mismatch (-want +got):\n%s", diff)
		}
	}
}
