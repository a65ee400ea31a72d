package matching

import "testing"

type testEdge struct {
	from, to int
	weight   int64
}

func buildGraph(edges []testEdge) *Graph {
	graph := &Graph{}
	for _, e := range edges {
		graph.AddEdge(e.from, e.to, e.weight)
	}
	return graph
}

// checkMatch runs Match and compares against the expected mate array,
// where -1 means unmatched. Most edge lists are 1-indexed to mirror the
// reference suite; in those, index 0 is an isolated vertex.
func checkMatch(t *testing.T, edges []testEdge, maxCardinality bool, expected []int) {
	t.Helper()
	got := Match(buildGraph(edges), maxCardinality)
	if len(got) != len(expected) {
		t.Fatalf("expected %d mates, got %d (%v)", len(expected), len(got), got)
	}
	for v, mate := range got {
		if mate != expected[v] {
			t.Fatalf("expected mate %v, got %v", expected, got)
		}
	}
}

func TestMatchEmpty(t *testing.T) {
	if got := Match(&Graph{}, false); len(got) != 0 {
		t.Errorf("expected empty matching, got %v", got)
	}
}

func TestMatchSingleEdge(t *testing.T) {
	checkMatch(t, []testEdge{{0, 1, 1}}, false, []int{1, 0})
}

func TestMatchPath2(t *testing.T) {
	checkMatch(t, []testEdge{{1, 2, 10}, {2, 3, 11}}, false,
		[]int{-1, -1, 3, 2})
}

func TestMatchPath3(t *testing.T) {
	checkMatch(t, []testEdge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}}, false,
		[]int{-1, -1, 3, 2, -1})
}

func TestMatchMaxCardinality(t *testing.T) {
	checkMatch(t, []testEdge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}}, true,
		[]int{-1, 2, 1, 4, 3})
}

func TestMatchNegativeWeights(t *testing.T) {
	edges := []testEdge{{1, 2, 2}, {1, 3, -2}, {2, 3, 1}, {2, 4, -1}, {3, 4, -6}}
	checkMatch(t, edges, false, []int{-1, 2, 1, -1, -1})
	checkMatch(t, edges, true, []int{-1, 3, 4, 1, 2})
}

func TestMatchSBlossom(t *testing.T) {
	edges := []testEdge{{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}}
	checkMatch(t, edges, false, []int{-1, 2, 1, 4, 3})

	edges = append(edges, testEdge{1, 6, 5}, testEdge{4, 5, 6})
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 5, 4, 1})
}

func TestMatchTBlossom(t *testing.T) {
	base := []testEdge{{1, 2, 9}, {1, 3, 8}, {2, 3, 10}, {1, 4, 5}}

	edges := append(append([]testEdge(nil), base...),
		testEdge{4, 5, 4}, testEdge{1, 6, 3})
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 5, 4, 1})

	base = append(base, testEdge{4, 5, 3})
	edges = append(append([]testEdge(nil), base...), testEdge{1, 6, 4})
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 5, 4, 1})

	edges = append(append([]testEdge(nil), base...), testEdge{3, 6, 4})
	checkMatch(t, edges, false, []int{-1, 2, 1, 6, 5, 4, 3})
}

func TestMatchNestedSBlossom(t *testing.T) {
	edges := []testEdge{
		{1, 2, 9}, {1, 3, 9}, {2, 3, 10}, {2, 4, 8},
		{3, 5, 8}, {4, 5, 10}, {5, 6, 6},
	}
	checkMatch(t, edges, false, []int{-1, 3, 4, 1, 2, 6, 5})
}

func TestMatchSRelabelNested(t *testing.T) {
	edges := []testEdge{
		{1, 2, 10}, {1, 7, 10}, {2, 3, 12}, {3, 4, 20}, {3, 5, 20},
		{4, 5, 25}, {5, 6, 10}, {6, 7, 10}, {7, 8, 8},
	}
	checkMatch(t, edges, false, []int{-1, 2, 1, 4, 3, 6, 5, 8, 7})
}

func TestMatchNestedSBlossomExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 8}, {1, 3, 8}, {2, 3, 10}, {2, 4, 12}, {3, 5, 12},
		{4, 5, 14}, {4, 6, 12}, {5, 7, 12}, {6, 7, 14}, {7, 8, 12},
	}
	checkMatch(t, edges, false, []int{-1, 2, 1, 5, 6, 3, 4, 8, 7})
}

func TestMatchSToTExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 23}, {1, 5, 22}, {1, 6, 15}, {2, 3, 25},
		{3, 4, 22}, {4, 5, 25}, {4, 8, 14}, {5, 7, 13},
	}
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 8, 7, 1, 5, 4})
}

func TestMatchNestedSToTExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 19}, {1, 3, 20}, {1, 8, 8}, {2, 3, 25}, {2, 4, 18},
		{3, 5, 18}, {4, 5, 13}, {4, 7, 7}, {5, 6, 7},
	}
	checkMatch(t, edges, false, []int{-1, 8, 3, 2, 7, 6, 5, 4, 1})
}

func TestMatchNastyTExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50},
		{1, 6, 30}, {3, 9, 35}, {4, 8, 35}, {5, 7, 26}, {9, 10, 5},
	}
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 8, 7, 1, 5, 4, 10, 9})
}

func TestMatchNastyTExpandVariant(t *testing.T) {
	edges := []testEdge{
		{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50},
		{1, 6, 30}, {3, 9, 35}, {4, 8, 26}, {5, 7, 40}, {9, 10, 5},
	}
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 8, 7, 1, 5, 4, 10, 9})
}

func TestMatchTExpandLeastSlack(t *testing.T) {
	edges := []testEdge{
		{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50},
		{1, 6, 30}, {3, 9, 35}, {4, 8, 28}, {5, 7, 26}, {9, 10, 5},
	}
	checkMatch(t, edges, false, []int{-1, 6, 3, 2, 8, 7, 1, 5, 4, 10, 9})
}

func TestMatchNestedNastyTExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 45}, {1, 7, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 95},
		{4, 6, 94}, {5, 6, 94}, {6, 7, 50}, {1, 8, 30}, {3, 11, 35},
		{5, 9, 36}, {7, 10, 26}, {11, 12, 5},
	}
	checkMatch(t, edges, false, []int{-1, 8, 3, 2, 6, 9, 4, 10, 1, 5, 7, 12, 11})
}

func TestMatchNestedRelabelExpand(t *testing.T) {
	edges := []testEdge{
		{1, 2, 40}, {1, 3, 40}, {2, 3, 60}, {2, 4, 55}, {3, 5, 55},
		{4, 5, 50}, {1, 8, 15}, {5, 7, 30}, {7, 6, 10}, {8, 10, 10},
		{4, 9, 30},
	}
	checkMatch(t, edges, false, []int{-1, 2, 1, 5, 9, 3, 7, 6, 10, 4, 8})
}

func TestInt128Arithmetic(t *testing.T) {
	big := int128From(1 << 62)
	doubled := big.double()
	if doubled.hi != 0 || doubled.lo != 1<<63 {
		t.Errorf("expected 2^63 as {0, 1<<63}, got %+v", doubled)
	}
	if doubled.half().cmp(big) != 0 {
		t.Errorf("expected half to invert double, got %+v", doubled.half())
	}

	neg := int128From(-3)
	if !neg.isNegative() {
		t.Error("expected -3 to be negative")
	}
	if neg.add(int128From(3)).cmp(int128{}) != 0 {
		t.Errorf("expected -3+3 == 0, got %+v", neg.add(int128From(3)))
	}
	if !neg.less(int128From(1)) {
		t.Error("expected -3 < 1")
	}
	if int128From(5).sub(int128From(7)).cmp(int128From(-2)) != 0 {
		t.Error("expected 5-7 == -2")
	}
}
