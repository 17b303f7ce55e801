package layout

import "github.com/matzehuels/metromap/pkg/metro"

// digraph is a minimal adjacency view over a MetroGraph. Parallel edges
// (same station pair on different lines) collapse to one arc. Node and
// neighbor slices preserve insertion order so every traversal built on
// top is deterministic.
type digraph struct {
	nodes []string
	succs map[string][]string
	preds map[string][]string
}

// buildDigraph collapses the graph's edges into a simple directed graph.
// Nodes appear in edge first-touch order followed by isolated stations in
// insertion order, matching the traversal order layer assignment expects.
func buildDigraph(g *metro.MetroGraph) *digraph {
	d := &digraph{
		succs: make(map[string][]string),
		preds: make(map[string][]string),
	}
	seen := make(map[string]bool)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			d.nodes = append(d.nodes, id)
		}
	}
	hasArc := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		addNode(e.Source)
		addNode(e.Target)
		key := [2]string{e.Source, e.Target}
		if hasArc[key] {
			continue
		}
		hasArc[key] = true
		d.succs[e.Source] = append(d.succs[e.Source], e.Target)
		d.preds[e.Target] = append(d.preds[e.Target], e.Source)
	}
	for _, sid := range g.StationIDs() {
		addNode(sid)
	}
	return d
}

func (d *digraph) successors(id string) []string   { return d.succs[id] }
func (d *digraph) predecessors(id string) []string { return d.preds[id] }

// topoSort returns the nodes in topological order, or an error naming a
// node on a cycle. Cycle detection runs first as an iterative three-color
// depth-first search so the error can point at the first node where the
// search re-enters its own stack.
func (d *digraph) topoSort() ([]string, error) {
	if cycleNode, ok := d.findCycle(); ok {
		return nil, &cycleError{node: cycleNode}
	}

	indeg := make(map[string]int, len(d.nodes))
	for _, n := range d.nodes {
		indeg[n] = len(d.preds[n])
	}
	queue := make([]string, 0, len(d.nodes))
	for _, n := range d.nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(d.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, s := range d.succs[n] {
			indeg[s]--
			if indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	return order, nil
}

const (
	colorWhite = iota // unvisited
	colorGray         // on the current DFS stack
	colorBlack        // fully explored
)

// findCycle reports a node that participates in a cycle, if any. The DFS
// is iterative to stay safe on deep graphs.
func (d *digraph) findCycle() (string, bool) {
	color := make(map[string]int, len(d.nodes))

	type frame struct {
		node string
		next int
	}

	for _, start := range d.nodes {
		if color[start] != colorWhite {
			continue
		}
		stack := []frame{{node: start}}
		color[start] = colorGray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := d.succs[top.node]
			if top.next < len(succs) {
				next := succs[top.next]
				top.next++
				switch color[next] {
				case colorGray:
					return next, true
				case colorWhite:
					color[next] = colorGray
					stack = append(stack, frame{node: next})
				}
				continue
			}
			color[top.node] = colorBlack
			stack = stack[:len(stack)-1]
		}
	}
	return "", false
}
