package molecule

import (
	"math"
	"slices"
)

// Graph owns the vertices and edges of one molecule. Ids are dense and
// assigned in insertion order, so Vertices[id].ID == id and Edges[id].ID == id.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	Vertices []*Vertex
	Edges    []*Edge

	edgeIndex map[[2]int]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{edgeIndex: make(map[[2]int]int)}
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// AddVertex assigns the next id to v and stores it.
func (g *Graph) AddVertex(v *Vertex) int {
	v.ID = len(g.Vertices)
	g.Vertices = append(g.Vertices, v)
	return v.ID
}

// AddEdge assigns the next id to e and stores it. Both endpoints' bond counts
// grow by the edge weight and the aromatic flag is derived from them.
func (g *Graph) AddEdge(e *Edge) int {
	src, dst := g.Vertices[e.SourceID], g.Vertices[e.TargetID]

	e.ID = len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.edgeIndex[pairKey(e.SourceID, e.TargetID)] = e.ID

	e.Aromatic = src.Atom.Aromatic && dst.Atom.Aromatic
	src.Atom.BondCount += e.Weight
	dst.Atom.BondCount += e.Weight

	src.Edges = append(src.Edges, e.ID)
	dst.Edges = append(dst.Edges, e.ID)
	return e.ID
}

// Edge returns the edge between a and b, or nil.
func (g *Graph) Edge(a, b int) *Edge {
	id, ok := g.edgeIndex[pairKey(a, b)]
	if !ok {
		return nil
	}
	return g.Edges[id]
}

// HasEdge reports whether a and b are bonded.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.edgeIndex[pairKey(a, b)]
	return ok
}

// EdgesOf returns the ids of the edges between v and its neighbours.
func (g *Graph) EdgesOf(v int) []int {
	var out []int
	for _, n := range g.Vertices[v].Neighbours {
		if id, ok := g.edgeIndex[pairKey(v, n)]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SetBondCount adjusts the bond count of both endpoints when an edge weight
// changes from old to e.Weight.
func (g *Graph) SetBondCount(e *Edge, old int) {
	d := e.Weight - old
	g.Vertices[e.SourceID].Atom.BondCount += d
	g.Vertices[e.TargetID].Atom.BondCount += d
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.Vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// =============================================================================
// Matrices and lists
// =============================================================================

// AdjacencyMatrix returns the 0/1 adjacency matrix over all edges.
func (g *Graph) AdjacencyMatrix() [][]int {
	m := squareInts(len(g.Vertices))
	for _, e := range g.Edges {
		m[e.SourceID][e.TargetID] = 1
		m[e.TargetID][e.SourceID] = 1
	}
	return m
}

// ComponentsAdjacencyMatrix is the adjacency matrix with every bridge
// removed. Its connected components are the ring systems plus isolated
// vertices.
func (g *Graph) ComponentsAdjacencyMatrix() [][]int {
	m := g.AdjacencyMatrix()
	for _, b := range g.Bridges() {
		m[b[0]][b[1]] = 0
		m[b[1]][b[0]] = 0
	}
	return m
}

// SubgraphAdjacencyMatrix returns the adjacency matrix of the subgraph
// induced by ids. Row i corresponds to ids[i].
func (g *Graph) SubgraphAdjacencyMatrix(ids []int) [][]int {
	m := squareInts(len(ids))
	for i, a := range ids {
		for j, b := range ids {
			if i != j && g.HasEdge(a, b) {
				m[i][j] = 1
			}
		}
	}
	return m
}

// AdjacencyList returns, per vertex, the neighbours it shares an edge with.
func (g *Graph) AdjacencyList() [][]int {
	out := make([][]int, len(g.Vertices))
	for i, v := range g.Vertices {
		for _, n := range v.Neighbours {
			if g.HasEdge(i, n) {
				out[i] = append(out[i], n)
			}
		}
	}
	return out
}

// SubgraphAdjacencyList is AdjacencyList restricted to ids, returned as
// indices into ids.
func (g *Graph) SubgraphAdjacencyList(ids []int) [][]int {
	out := make([][]int, len(ids))
	for i, a := range ids {
		for j, b := range ids {
			if i != j && g.HasEdge(a, b) {
				out[i] = append(out[i], j)
			}
		}
	}
	return out
}

// DistanceMatrix returns all-pairs topological distances. Unreachable pairs
// are +Inf.
func (g *Graph) DistanceMatrix() [][]float64 {
	return floydWarshall(g.AdjacencyMatrix())
}

// SubgraphDistanceMatrix is DistanceMatrix over the subgraph induced by ids.
func (g *Graph) SubgraphDistanceMatrix(ids []int) [][]float64 {
	return floydWarshall(g.SubgraphAdjacencyMatrix(ids))
}

func floydWarshall(adj [][]int) [][]float64 {
	n := len(adj)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			switch {
			case i == j:
				d[i][j] = 0
			case adj[i][j] == 1:
				d[i][j] = 1
			default:
				d[i][j] = math.Inf(1)
			}
		}
	}
	for k := range n {
		for i := range n {
			for j := range n {
				if d[i][j] > d[i][k]+d[k][j] {
					d[i][j] = d[i][k] + d[k][j]
				}
			}
		}
	}
	return d
}

func squareInts(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

// =============================================================================
// Traversals
// =============================================================================

// Bridges returns the cut edges of the graph as (parent, child) pairs in DFS
// order, using Tarjan's low-link values on an explicit stack.
func (g *Graph) Bridges() [][2]int {
	n := len(g.Vertices)
	adj := g.AdjacencyList()
	disc := make([]int, n)
	low := make([]int, n)
	parent := make([]int, n)
	visited := make([]bool, n)
	for i := range parent {
		parent[i] = -1
	}

	type frame struct{ u, next int }
	var bridges [][2]int
	time := 0

	for s := range n {
		if visited[s] {
			continue
		}
		visited[s] = true
		time++
		disc[s], low[s] = time, time
		stack := []frame{{u: s}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			u := top.u
			if top.next < len(adj[u]) {
				v := adj[u][top.next]
				top.next++
				if !visited[v] {
					visited[v] = true
					parent[v] = u
					time++
					disc[v], low[v] = time, time
					stack = append(stack, frame{u: v})
				} else if v != parent[u] {
					low[u] = min(low[u], disc[v])
				}
				continue
			}

			stack = stack[:len(stack)-1]
			if p := parent[u]; p >= 0 {
				low[p] = min(low[p], low[u])
				if low[u] > disc[p] {
					bridges = append(bridges, [2]int{p, u})
				}
			}
		}
	}
	return bridges
}

// ConnectedComponents returns the vertex ids of each connected component in
// DFS pre-order.
func (g *Graph) ConnectedComponents() [][]int {
	return components(g.AdjacencyList())
}

// ComponentsOfMatrix returns the connected components of an adjacency
// matrix as lists of row indices.
func ComponentsOfMatrix(adj [][]int) [][]int {
	list := make([][]int, len(adj))
	for i, row := range adj {
		for j, v := range row {
			if v == 1 {
				list[i] = append(list[i], j)
			}
		}
	}
	return components(list)
}

func components(adj [][]int) [][]int {
	visited := make([]bool, len(adj))
	var out [][]int
	for s := range adj {
		if visited[s] {
			continue
		}
		var comp []int
		stack := []int{s}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[u] {
				continue
			}
			visited[u] = true
			comp = append(comp, u)
			for i := len(adj[u]) - 1; i >= 0; i-- {
				if !visited[adj[u][i]] {
					stack = append(stack, adj[u][i])
				}
			}
		}
		out = append(out, comp)
	}
	return out
}

// Tree returns v and every vertex reachable from v without passing through
// parent. It is the set of vertices moved when the bond (parent, v) is used
// as a rotation axis.
func (g *Graph) Tree(v, parent int) []int {
	visited := make([]bool, len(g.Vertices))
	if parent >= 0 {
		visited[parent] = true
	}
	var out []int
	stack := []int{v}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] {
			continue
		}
		visited[u] = true
		out = append(out, u)
		nbrs := g.Vertices[u].Neighbours
		for i := len(nbrs) - 1; i >= 0; i-- {
			if !visited[nbrs[i]] {
				stack = append(stack, nbrs[i])
			}
		}
	}
	return out
}

// TreeDepth returns the height of the spanning tree hanging off v when the
// link to parent is cut. A leaf has depth 1.
func (g *Graph) TreeDepth(v, parent int) int {
	type item struct{ id, from, depth int }
	best := 0
	stack := []item{{v, parent, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		best = max(best, it.depth)
		for _, n := range g.Vertices[it.id].SpanningTreeNeighbours(it.from) {
			stack = append(stack, item{n, it.id, it.depth + 1})
		}
	}
	return best
}

// Positions returns a snapshot of every vertex position.
func (g *Graph) Positions() []Snapshot {
	out := make([]Snapshot, len(g.Vertices))
	for i, v := range g.Vertices {
		out[i] = Snapshot{Position: v.Position, Positioned: v.Positioned}
	}
	return out
}

// RestorePositions restores a snapshot taken by Positions. Vertices added
// after the snapshot are left untouched.
func (g *Graph) RestorePositions(s []Snapshot) {
	for i := range s {
		if i < len(g.Vertices) {
			g.Vertices[i].Position = s[i].Position
			g.Vertices[i].Positioned = s[i].Positioned
		}
	}
}

// HeavyAtomCount returns the number of non-hydrogen vertices.
func (g *Graph) HeavyAtomCount() int {
	n := 0
	for _, v := range g.Vertices {
		if v.Atom.Symbol() != "H" {
			n++
		}
	}
	return n
}

// RingMembers returns the vertex ids whose atoms belong to ring id.
func (g *Graph) RingMembers(id int) []int {
	var out []int
	for _, v := range g.Vertices {
		if slices.Contains(v.Atom.Rings, id) {
			out = append(out, v.ID)
		}
	}
	return out
}
