package callgraph

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCallTargets bounds how many resolved targets a single call site may
// carry. Pathological virtual call sites stop accumulating past this point
// instead of growing without limit.
const MaxCallTargets = 1000

// ErrTooManyTargets is returned by AddCallTarget once an invoke holds
// MaxCallTargets resolved targets.
var ErrTooManyTargets = errors.New("too many call targets")

// Invoke represents one call instruction inside a method body, together
// with the concrete methods the external analysis resolved it to.
//
// The record does not validate id uniqueness and does not reject extra
// targets on a direct call site; both are invariants of the surrounding
// analysis (see Graph.AddInvoke for the id check).
type Invoke struct {
	ID       int
	Method   *Method // method whose body contains this call site
	Target   *Method // declared target, as written in the instruction
	BCI      string  // bytecode index label of the instruction
	IsDirect bool    // statically bound, no dispatch needed

	targets []*Method
}

// NewInvoke creates an invoke record with an empty resolved-target list.
// method and target must outlive the record; a method invoking itself may
// pass the same value for both.
func NewInvoke(id int, method, target *Method, bci string, isDirect bool) *Invoke {
	return &Invoke{
		ID:       id,
		Method:   method,
		Target:   target,
		BCI:      bci,
		IsDirect: isDirect,
	}
}

// AddCallTarget appends a resolved target in call order. Duplicates are
// kept. Fails with ErrTooManyTargets once the record is at capacity,
// leaving the existing targets untouched.
func (i *Invoke) AddCallTarget(target *Method) error {
	if len(i.targets) >= MaxCallTargets {
		return fmt.Errorf("invoke %d at bci %s: %w", i.ID, i.BCI, ErrTooManyTargets)
	}
	i.targets = append(i.targets, target)
	return nil
}

// Targets returns the resolved targets in insertion order. The returned
// slice is owned by the record and must not be modified.
func (i *Invoke) Targets() []*Method {
	return i.targets
}

// TargetCount returns the number of resolved targets.
func (i *Invoke) TargetCount() int {
	return len(i.targets)
}

// String renders the record for diagnostics: id, containing method,
// declared target, bci, binding kind, and every resolved target. The exact
// format is not a compatibility contract.
func (i *Invoke) String() string {
	kind := "indirect"
	if i.IsDirect {
		kind = "direct"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "invoke #%d (%s) in %s at bci %s: %s",
		i.ID, kind, i.Method.FullName(), i.BCI, i.Target.FullName())
	if len(i.targets) == 0 {
		b.WriteString(" -> no resolved targets")
		return b.String()
	}
	b.WriteString(" -> [")
	for n, t := range i.targets {
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.FullName())
	}
	b.WriteString("]")
	return b.String()
}
