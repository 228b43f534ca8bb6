// Package loader stores call graphs in Neo4j for the visualization
// frontend, using batch UNWIND queries.
package loader

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/mv02/bp-diff-tool/internal/callgraph"
)

// Edge rows are written in batches of this size, matching the import
// behavior of the original backend.
const edgeBatchSize = 1000

// Loader writes call-graph data into a Neo4j database. Every node and
// relationship carries a Graph property so multiple analysis runs can
// coexist in one database.
type Loader struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
}

// New connects to Neo4j and returns a ready-to-use loader.
func New(ctx context.Context, uri, user, password string) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Loader{driver: driver, ctx: ctx}, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Loader) Close() {
	l.driver.Close(l.ctx)
}

// run executes a single Cypher statement with optional parameters.
func (l *Loader) run(cypher string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(l.ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
}

// CreateConstraints ensures the uniqueness constraint and indexes the
// graph queries rely on.
func (l *Loader) CreateConstraints() error {
	queries := []string{
		"CREATE CONSTRAINT unique_method_id IF NOT EXISTS " +
			"FOR (m:Method) REQUIRE (m.Id, m.Graph) IS UNIQUE",
		"CREATE INDEX method_id IF NOT EXISTS FOR (m:Method) ON m.Id",
		"CREATE INDEX method_graph IF NOT EXISTS FOR (m:Method) ON m.Graph",
	}
	for _, q := range queries {
		if _, err := l.run(q, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadGraph replaces the stored graph of the same name with g and returns
// the resulting node and edge counts.
func (l *Loader) LoadGraph(g *callgraph.Graph) (nodes, edges int64, err error) {
	log.Printf("Purging graph %q", g.Name)
	purge := []string{
		"MATCH ()-[r {Graph: $graph}]-() DELETE r",
		"MATCH (n {Graph: $graph}) DELETE n",
	}
	for _, q := range purge {
		if _, err := l.run(q, map[string]any{"graph": g.Name}); err != nil {
			return 0, 0, err
		}
	}

	log.Printf("Creating %d method nodes", g.MethodCount())
	result, err := l.run(
		`UNWIND $data AS row
		 CREATE (m:Method {Graph: $graph})
		 SET m += row`,
		map[string]any{"data": methodRows(g), "graph": g.Name},
	)
	if err != nil {
		return 0, 0, err
	}
	nodes = int64(result.Summary.Counters().NodesCreated())

	rows := edgeRows(g)
	log.Printf("Creating edges from %d target rows", len(rows))
	for start := 0; start < len(rows); start += edgeBatchSize {
		end := min(start+edgeBatchSize, len(rows))
		_, err := l.run(
			`UNWIND $data AS row
			 MATCH (s:Method {Graph: $graph, Id: row.SourceId})
			 MATCH (t:Method {Graph: $graph, Id: row.TargetId})
			 MERGE (s)-[r:CALLS {Graph: $graph}]->(t)`,
			map[string]any{"data": rows[start:end], "graph": g.Name},
		)
		if err != nil {
			return 0, 0, err
		}
	}

	result, err = l.run(
		"MATCH ()-[r:CALLS {Graph: $graph}]->() RETURN count(r) AS edgeCount",
		map[string]any{"graph": g.Name},
	)
	if err != nil {
		return 0, 0, err
	}
	if len(result.Records) > 0 {
		if v, ok := result.Records[0].Get("edgeCount"); ok {
			edges, _ = v.(int64)
		}
	}
	return nodes, edges, nil
}

// DeleteGraph removes every node and relationship of the named graph and
// returns how many of each were deleted.
func (l *Loader) DeleteGraph(name string) (nodes, edges int64, err error) {
	result, err := l.run(
		`MATCH (m {Graph: $graph})
		 OPTIONAL MATCH (m)-[r]->()
		 DELETE r, m`,
		map[string]any{"graph": name},
	)
	if err != nil {
		return 0, 0, err
	}
	counters := result.Summary.Counters()
	return int64(counters.NodesDeleted()), int64(counters.RelationshipsDeleted()), nil
}

// GraphInfo summarizes one stored graph.
type GraphInfo struct {
	Name      string
	NodeCount int64
	EdgeCount int64
}

// ListGraphs returns every stored graph with its node and edge counts.
func (l *Loader) ListGraphs() ([]GraphInfo, error) {
	result, err := l.run(
		`MATCH (m:Method)
		 OPTIONAL MATCH (m)-[r:CALLS]->()
		 RETURN m.Graph AS name, count(DISTINCT m) AS nodeCount, count(r) AS edgeCount
		 ORDER BY name`,
		nil,
	)
	if err != nil {
		return nil, err
	}

	graphs := make([]GraphInfo, 0, len(result.Records))
	for _, rec := range result.Records {
		row := rec.AsMap()
		info := GraphInfo{}
		info.Name, _ = row["name"].(string)
		info.NodeCount, _ = row["nodeCount"].(int64)
		info.EdgeCount, _ = row["edgeCount"].(int64)
		graphs = append(graphs, info)
	}
	return graphs, nil
}

// TreeMethod is one row of the per-graph method tree, ordered by
// declaring class.
type TreeMethod struct {
	ID    string
	Name  string
	Class string
}

// MethodTree returns the named graph's methods ordered by declaring class
// and name, the order the frontend's tree view expects.
func (l *Loader) MethodTree(name string) ([]TreeMethod, error) {
	result, err := l.run(
		`MATCH (m:Method {Graph: $graph})
		 RETURN m.Id AS id, m.Name AS name, m.Type AS type
		 ORDER BY type, name`,
		map[string]any{"graph": name},
	)
	if err != nil {
		return nil, err
	}

	methods := make([]TreeMethod, 0, len(result.Records))
	for _, rec := range result.Records {
		row := rec.AsMap()
		m := TreeMethod{}
		m.ID, _ = row["id"].(string)
		m.Name, _ = row["name"].(string)
		m.Class, _ = row["type"].(string)
		methods = append(methods, m)
	}
	return methods, nil
}

// MethodDetail is one method together with the shortest entry-point path
// leading to it, if any entry point reaches it.
type MethodDetail struct {
	Method    TreeMethod
	EntryPath []TreeMethod
}

// MethodByID returns a single method of the named graph and the shortest
// call path from an entry point to it.
func (l *Loader) MethodByID(graph, id string) (*MethodDetail, error) {
	result, err := l.run(
		`MATCH (m:Method {Id: $id, Graph: $graph})
		 OPTIONAL MATCH p = ALL SHORTEST (e:Method {IsEntryPoint: 'true', Graph: $graph})
		 -[:CALLS {Graph: $graph}]->+(m)
		 RETURN m, nodes(p) AS path LIMIT 1`,
		map[string]any{"id": id, "graph": graph},
	)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("method %q not found in graph %q", id, graph)
	}

	rec := result.Records[0]
	detail := &MethodDetail{}
	if v, ok := rec.Get("m"); ok {
		if node, ok := v.(neo4j.Node); ok {
			detail.Method = methodFromNode(node)
		}
	}
	if v, ok := rec.Get("path"); ok {
		detail.EntryPath = methodsFromNodeList(v)
	}
	return detail, nil
}

// MethodCallers returns every method of the graph that calls the given
// method.
func (l *Loader) MethodCallers(graph, id string) ([]TreeMethod, error) {
	result, err := l.run(
		`MATCH (m:Method {Graph: $graph, Id: $id})
		 OPTIONAL MATCH (caller:Method {Graph: $graph})-->(m)
		 RETURN m, collect(caller) AS callers`,
		map[string]any{"id": id, "graph": graph},
	)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("method %q not found in graph %q", id, graph)
	}
	v, _ := result.Records[0].Get("callers")
	return methodsFromNodeList(v), nil
}

// MethodCallees returns every method of the graph the given method calls.
func (l *Loader) MethodCallees(graph, id string) ([]TreeMethod, error) {
	result, err := l.run(
		`MATCH (m:Method {Graph: $graph, Id: $id})
		 OPTIONAL MATCH (m)-->(callee:Method {Graph: $graph})
		 RETURN m, collect(callee) AS callees`,
		map[string]any{"id": id, "graph": graph},
	)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("method %q not found in graph %q", id, graph)
	}
	v, _ := result.Records[0].Get("callees")
	return methodsFromNodeList(v), nil
}

// methodFromNode reads a :Method node's properties.
func methodFromNode(node neo4j.Node) TreeMethod {
	m := TreeMethod{}
	m.ID, _ = node.Props["Id"].(string)
	m.Name, _ = node.Props["Name"].(string)
	m.Class, _ = node.Props["Type"].(string)
	return m
}

// methodsFromNodeList converts a Cypher node list value. A null list
// (no path, no neighbors) yields nil.
func methodsFromNodeList(v any) []TreeMethod {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	methods := make([]TreeMethod, 0, len(list))
	for _, item := range list {
		if node, ok := item.(neo4j.Node); ok {
			methods = append(methods, methodFromNode(node))
		}
	}
	return methods
}

// methodRows converts the graph's methods to UNWIND rows. Property names
// follow the analyzer's CSV columns; booleans are stored as strings the
// same way the CSV import did.
func methodRows(g *callgraph.Graph) []map[string]any {
	rows := make([]map[string]any, 0, g.MethodCount())
	for _, m := range g.Methods() {
		rows = append(rows, map[string]any{
			"Id":           m.ID,
			"Name":         m.Name,
			"Type":         m.Class,
			"IsEntryPoint": strconv.FormatBool(m.IsEntryPoint),
		})
	}
	return rows
}

// edgeRows flattens every invoke's resolved targets into caller/callee id
// pairs. MERGE collapses repeated pairs when loading.
func edgeRows(g *callgraph.Graph) []map[string]any {
	var rows []map[string]any
	for _, inv := range g.Invokes() {
		for _, target := range inv.Targets() {
			rows = append(rows, map[string]any{
				"SourceId": inv.Method.ID,
				"TargetId": target.ID,
			})
		}
	}
	return rows
}
