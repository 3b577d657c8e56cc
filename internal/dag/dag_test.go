package dag

import (
	"reflect"
	"testing"
)

func derivations(m map[string][]string, order ...string) *Graph {
	return Build(order, func(name string) []string { return m[name] })
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("a")

	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}

	// c is derived from b, which is derived from a
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("b", "c")

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
	if !g.HasNode("c") {
		t.Error("AddEdge should add missing nodes")
	}
	if got := g.Nodes(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Nodes() = %v", got)
	}
	if got := g.Parents("c"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Parents(c) = %v", got)
	}
	if got := g.Children("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Children(a) = %v", got)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	tests := []struct {
		name      string
		deps      map[string][]string
		order     []string
		wantCycle bool
		wantPath  []string
	}{
		{
			name:      "cycle through four variables",
			deps:      map[string][]string{"a": {"b"}, "b": {"c", "d"}, "c": {"e"}, "e": {"a"}},
			order:     []string{"a", "b", "c", "e"},
			wantCycle: true,
			wantPath:  []string{"a", "b", "c", "e", "a"},
		},
		{
			name:  "same shape without the back edge",
			deps:  map[string][]string{"a": {"b"}, "b": {"c", "d"}, "c": {"e"}, "e": {"f"}},
			order: []string{"a", "b", "c", "e"},
		},
		{
			name:      "derived from itself",
			deps:      map[string][]string{"x": {"x"}},
			order:     []string{"x"},
			wantCycle: true,
			wantPath:  []string{"x", "x"},
		},
		{
			name:      "cycle found from first declaring variable",
			deps:      map[string][]string{"z": {"y"}, "y": {"z"}, "w": {}},
			order:     []string{"w", "y", "z"},
			wantCycle: true,
			wantPath:  []string{"y", "z", "y"},
		},
		{
			name:  "diamond",
			deps:  map[string][]string{"d": {"b", "c"}, "b": {"a"}, "c": {"a"}},
			order: []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := derivations(tt.deps, tt.order...)
			got, path := g.HasCycle()
			if got != tt.wantCycle {
				t.Fatalf("HasCycle() = %v, want %v", got, tt.wantCycle)
			}
			if !reflect.DeepEqual(path, tt.wantPath) {
				t.Errorf("cycle path = %v, want %v", path, tt.wantPath)
			}
		})
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := derivations(map[string][]string{
		"alder":     {"fodselsar"},
		"fodselsar": {"fnr"},
		"kjonn":     {"fnr"},
	}, "alder", "kjonn", "fodselsar", "fnr")

	got, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"fnr", "fodselsar", "alder", "kjonn"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopologicalSort() = %v, want %v", got, want)
	}

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLevels := [][]string{{"fnr"}, {"fodselsar", "kjonn"}, {"alder"}}
	if !reflect.DeepEqual(levels, wantLevels) {
		t.Errorf("Levels() = %v, want %v", levels, wantLevels)
	}
}

func TestGraph_TopologicalSort_Cycle(t *testing.T) {
	g := derivations(map[string][]string{"a": {"b"}, "b": {"a"}}, "a", "b")
	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected error for cyclic graph")
	}
	if _, err := g.Levels(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_UpstreamDownstream(t *testing.T) {
	g := derivations(map[string][]string{
		"alder":     {"fodselsar"},
		"fodselsar": {"fnr"},
		"kjonn":     {"fnr"},
	}, "alder", "kjonn", "fodselsar", "fnr")

	if got := g.Upstream("alder"); !reflect.DeepEqual(got, []string{"fnr", "fodselsar"}) {
		t.Errorf("Upstream(alder) = %v", got)
	}
	if got := g.Downstream("fnr"); !reflect.DeepEqual(got, []string{"alder", "fodselsar", "kjonn"}) {
		t.Errorf("Downstream(fnr) = %v", got)
	}
	if got := g.Downstream("alder"); len(got) != 0 {
		t.Errorf("Downstream(alder) = %v, want empty", got)
	}
	if got := g.Roots(); !reflect.DeepEqual(got, []string{"fnr"}) {
		t.Errorf("Roots() = %v", got)
	}
}
