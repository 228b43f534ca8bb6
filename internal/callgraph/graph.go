package callgraph

import "fmt"

// Graph is the in-memory call graph of one analyzed program: the methods
// the analyzer reported and, per method, its ordered call sites. The graph
// owns its records; traversal never needs a separate container or manual
// link management.
type Graph struct {
	Name string

	methods  map[string]*Method
	order    []*Method
	invokes  map[int]*Invoke
	invOrder []*Invoke
}

// NewGraph creates an empty graph with the given name. The name scopes the
// graph in shared storage, so two analysis runs can coexist.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:    name,
		methods: make(map[string]*Method),
		invokes: make(map[int]*Invoke),
	}
}

// AddMethod registers a method. Method ids are the analyzer's identifiers
// and must be unique within a graph.
func (g *Graph) AddMethod(m *Method) error {
	if _, ok := g.methods[m.ID]; ok {
		return fmt.Errorf("duplicate method id %q", m.ID)
	}
	g.methods[m.ID] = m
	g.order = append(g.order, m)
	return nil
}

// Method returns the method with the given id, or nil.
func (g *Graph) Method(id string) *Method {
	return g.methods[id]
}

// Methods returns all methods in insertion order. The returned slice is
// owned by the graph and must not be modified.
func (g *Graph) Methods() []*Method {
	return g.order
}

// AddInvoke registers a call site and appends it to its containing
// method's invoke list. The containing method must already be part of the
// graph, and the invoke id must be unique within the graph: resolved
// targets are attached by id later, so a collision would silently merge
// two call sites.
func (g *Graph) AddInvoke(inv *Invoke) error {
	if _, ok := g.invokes[inv.ID]; ok {
		return fmt.Errorf("duplicate invoke id %d", inv.ID)
	}
	if inv.Method == nil || g.methods[inv.Method.ID] != inv.Method {
		return fmt.Errorf("invoke %d: containing method not in graph", inv.ID)
	}
	g.invokes[inv.ID] = inv
	g.invOrder = append(g.invOrder, inv)
	inv.Method.addInvoke(inv)
	return nil
}

// Invoke returns the call site with the given id, or nil.
func (g *Graph) Invoke(id int) *Invoke {
	return g.invokes[id]
}

// Invokes returns every call site in the graph in insertion order. The
// returned slice is owned by the graph and must not be modified.
func (g *Graph) Invokes() []*Invoke {
	return g.invOrder
}

// MethodCount returns the number of registered methods.
func (g *Graph) MethodCount() int {
	return len(g.order)
}

// InvokeCount returns the number of registered call sites.
func (g *Graph) InvokeCount() int {
	return len(g.invOrder)
}
