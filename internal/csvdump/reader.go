// Package csvdump reads the CSV dumps produced by the bytecode analyzer
// frontend and reconstructs the in-memory call graph.
package csvdump

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mv02/bp-diff-tool/internal/callgraph"
)

// DumpFiles holds the paths of one analyzer dump: method descriptors,
// call sites, and resolved targets.
type DumpFiles struct {
	Methods string
	Invokes string
	Targets string
}

// Locate finds the dump files in dir. The analyzer may leave several dumps
// behind; for each kind the newest *.csv whose name contains the kind's
// key is chosen, matching how the visualization backend picks uploads.
func Locate(dir string) (DumpFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DumpFiles{}, fmt.Errorf("cannot read dump directory: %w", err)
	}

	newest := map[string]string{}
	for _, key := range []string{"methods", "invokes", "targets"} {
		var best string
		var bestMod int64
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.Contains(name, key) || !strings.HasSuffix(name, ".csv") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if best == "" || info.ModTime().UnixNano() > bestMod {
				best = filepath.Join(dir, name)
				bestMod = info.ModTime().UnixNano()
			}
		}
		if best == "" {
			return DumpFiles{}, fmt.Errorf("could not find a %s file in %s", key, dir)
		}
		newest[key] = best
	}

	return DumpFiles{
		Methods: newest["methods"],
		Invokes: newest["invokes"],
		Targets: newest["targets"],
	}, nil
}

// Load locates the newest dump in dir and builds a graph from it.
func Load(dir, graphName string) (*callgraph.Graph, error) {
	files, err := Locate(dir)
	if err != nil {
		return nil, err
	}
	return LoadFiles(files, graphName)
}

// LoadFiles builds a graph from an explicit set of dump files: methods
// first, then call sites, then resolved targets attached by invoke id.
func LoadFiles(files DumpFiles, graphName string) (*callgraph.Graph, error) {
	g := callgraph.NewGraph(graphName)

	err := readRows(files.Methods, func(row record) error {
		entry, err := parseBool(row, "IsEntryPoint")
		if err != nil {
			return err
		}
		return g.AddMethod(&callgraph.Method{
			ID:           row.get("Id"),
			Name:         row.get("Name"),
			Class:        row.get("Type"),
			IsEntryPoint: entry,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.Methods, err)
	}

	err = readRows(files.Invokes, func(row record) error {
		id, err := strconv.Atoi(row.get("Id"))
		if err != nil {
			return fmt.Errorf("invalid invoke id %q", row.get("Id"))
		}
		method := g.Method(row.get("MethodId"))
		if method == nil {
			return fmt.Errorf("invoke %d: unknown method %q", id, row.get("MethodId"))
		}
		declared := g.Method(row.get("TargetId"))
		if declared == nil {
			return fmt.Errorf("invoke %d: unknown declared target %q", id, row.get("TargetId"))
		}
		direct, err := parseBool(row, "IsDirect")
		if err != nil {
			return err
		}
		return g.AddInvoke(callgraph.NewInvoke(id, method, declared, row.get("Bci"), direct))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.Invokes, err)
	}

	err = readRows(files.Targets, func(row record) error {
		id, err := strconv.Atoi(row.get("InvokeId"))
		if err != nil {
			return fmt.Errorf("invalid invoke id %q", row.get("InvokeId"))
		}
		inv := g.Invoke(id)
		if inv == nil {
			return fmt.Errorf("target row references unknown invoke %d", id)
		}
		target := g.Method(row.get("TargetId"))
		if target == nil {
			return fmt.Errorf("invoke %d: unknown target %q", id, row.get("TargetId"))
		}
		if inv.IsDirect && inv.TargetCount() == 1 {
			log.Printf("Warning: direct invoke %d at bci %s resolved to more than one target", inv.ID, inv.BCI)
		}
		return inv.AddCallTarget(target)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.Targets, err)
	}

	return g, nil
}

// record is one CSV row with header-based field access.
type record struct {
	columns map[string]int
	fields  []string
}

func (r record) get(column string) string {
	v, _ := r.lookup(column)
	return v
}

// lookup reports whether the column exists in the header at all, so a
// misspelled boolean column fails the import instead of silently reading
// as false for every row.
func (r record) lookup(column string) (string, bool) {
	idx, ok := r.columns[column]
	if !ok {
		return "", false
	}
	if idx >= len(r.fields) {
		return "", true
	}
	return strings.TrimSpace(r.fields[idx]), true
}

func parseBool(row record, column string) (bool, error) {
	raw, ok := row.lookup(column)
	if !ok {
		return false, fmt.Errorf("missing %s column", column)
	}
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", column, raw)
	}
	return v, nil
}

// readRows streams a CSV file, calling fn for every non-header row.
func readRows(path string, fn func(record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("cannot read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(record{columns: columns, fields: fields}); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}
