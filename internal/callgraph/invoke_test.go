package callgraph

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestNewInvoke_EchoesInputs verifies that a fresh record carries exactly
// the construction inputs and no resolved targets.
func TestNewInvoke_EchoesInputs(t *testing.T) {
	m := &Method{ID: "1", Name: "run()", Class: "com.example.Main"}
	decl := &Method{ID: "2", Name: "get()", Class: "com.example.Supplier"}

	inv := NewInvoke(7, m, decl, "42", false)

	if inv.ID != 7 {
		t.Errorf("ID = %d, want 7", inv.ID)
	}
	if inv.Method != m {
		t.Errorf("Method = %v, want %v", inv.Method, m)
	}
	if inv.Target != decl {
		t.Errorf("Target = %v, want %v", inv.Target, decl)
	}
	if inv.BCI != "42" {
		t.Errorf("BCI = %q, want %q", inv.BCI, "42")
	}
	if inv.IsDirect {
		t.Error("IsDirect = true, want false")
	}
	if inv.TargetCount() != 0 {
		t.Errorf("TargetCount = %d, want 0", inv.TargetCount())
	}
}

// TestAddCallTarget_PreservesOrder verifies that targets come back in call
// order and that duplicates are kept.
func TestAddCallTarget_PreservesOrder(t *testing.T) {
	m := &Method{ID: "1", Name: "dispatch()", Class: "com.example.Bus"}
	decl := &Method{ID: "2", Name: "handle()", Class: "com.example.Handler"}
	inv := NewInvoke(1, m, decl, "10", false)

	t1 := &Method{ID: "3", Name: "handle()", Class: "com.example.A"}
	t2 := &Method{ID: "4", Name: "handle()", Class: "com.example.B"}
	t3 := &Method{ID: "5", Name: "handle()", Class: "com.example.C"}

	for _, target := range []*Method{t1, t2, t3, t1} {
		if err := inv.AddCallTarget(target); err != nil {
			t.Fatalf("AddCallTarget failed: %v", err)
		}
	}

	want := []*Method{t1, t2, t3, t1}
	got := inv.Targets()
	if len(got) != len(want) {
		t.Fatalf("TargetCount = %d, want %d", len(got), len(want))
	}
	for n := range want {
		if got[n] != want[n] {
			t.Errorf("targets[%d] = %s, want %s", n, got[n].FullName(), want[n].FullName())
		}
	}
}

// TestAddCallTarget_CapacityExceeded fills a record to MaxCallTargets and
// verifies that one more addition fails cleanly without changing the list.
func TestAddCallTarget_CapacityExceeded(t *testing.T) {
	m := &Method{ID: "1", Name: "fanout()", Class: "com.example.Hub"}
	decl := &Method{ID: "2", Name: "accept()", Class: "com.example.Visitor"}
	inv := NewInvoke(1, m, decl, "0", false)

	target := &Method{ID: "3", Name: "accept()", Class: "com.example.Impl"}
	for n := 0; n < MaxCallTargets; n++ {
		if err := inv.AddCallTarget(target); err != nil {
			t.Fatalf("AddCallTarget failed at %d: %v", n, err)
		}
	}

	err := inv.AddCallTarget(target)
	if !errors.Is(err, ErrTooManyTargets) {
		t.Fatalf("AddCallTarget error = %v, want ErrTooManyTargets", err)
	}
	if inv.TargetCount() != MaxCallTargets {
		t.Errorf("TargetCount after overflow = %d, want %d", inv.TargetCount(), MaxCallTargets)
	}
}

// TestInvoke_DirectCall mirrors the common case: a direct call site
// resolving to exactly its declared target.
func TestInvoke_DirectCall(t *testing.T) {
	m := &Method{ID: "1", Name: "main([Ljava/lang/String;)V", Class: "com.example.Main"}
	decl := &Method{ID: "2", Name: "run()V", Class: "com.example.Worker"}

	inv := NewInvoke(1, m, decl, "5", true)
	if err := inv.AddCallTarget(decl); err != nil {
		t.Fatalf("AddCallTarget failed: %v", err)
	}

	if inv.TargetCount() != 1 {
		t.Fatalf("TargetCount = %d, want 1", inv.TargetCount())
	}
	s := inv.String()
	if !strings.Contains(s, "com.example.Worker.run()V") {
		t.Errorf("String() = %q, missing declared target", s)
	}
	if !strings.Contains(s, "direct") {
		t.Errorf("String() = %q, missing binding kind", s)
	}
}

// TestInvoke_StringDeterministic verifies that rendering is a pure
// function of record state.
func TestInvoke_StringDeterministic(t *testing.T) {
	build := func() *Invoke {
		m := &Method{ID: "1", Name: "call()", Class: "com.example.Caller"}
		decl := &Method{ID: "2", Name: "fn()", Class: "com.example.Iface"}
		inv := NewInvoke(3, m, decl, "17", false)
		inv.AddCallTarget(&Method{ID: "4", Name: "fn()", Class: "com.example.One"})
		inv.AddCallTarget(&Method{ID: "5", Name: "fn()", Class: "com.example.Two"})
		return inv
	}

	a, b := build(), build()
	if a.String() != b.String() {
		t.Errorf("structurally identical records render differently:\n%s\n%s", a, b)
	}
	if first, second := a.String(), a.String(); first != second {
		t.Errorf("repeated String() differs:\n%s\n%s", first, second)
	}
}

// TestInvoke_StringListsAllFields checks that every field the record
// carries shows up in the rendering.
func TestInvoke_StringListsAllFields(t *testing.T) {
	m := &Method{ID: "1", Name: "caller()", Class: "a.B"}
	decl := &Method{ID: "2", Name: "callee()", Class: "a.C"}
	inv := NewInvoke(9, m, decl, "bci=120", false)
	inv.AddCallTarget(&Method{ID: "3", Name: "callee()", Class: "a.D"})

	s := inv.String()
	for _, part := range []string{"#9", "a.B.caller()", "a.C.callee()", "bci=120", "indirect", "a.D.callee()"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

// TestInvoke_StringNoTargets covers the unresolved rendering used for
// call sites the analysis found no concrete target for.
func TestInvoke_StringNoTargets(t *testing.T) {
	m := &Method{ID: "1", Name: "caller()", Class: "a.B"}
	decl := &Method{ID: "2", Name: "callee()", Class: "a.C"}
	inv := NewInvoke(1, m, decl, "3", false)

	if s := inv.String(); !strings.Contains(s, "no resolved targets") {
		t.Errorf("String() = %q, want unresolved marker", s)
	}
}

func ExampleInvoke_String() {
	m := &Method{ID: "1", Name: "start()", Class: "com.example.App"}
	decl := &Method{ID: "2", Name: "run()", Class: "java.lang.Runnable"}
	inv := NewInvoke(1, m, decl, "8", false)
	inv.AddCallTarget(&Method{ID: "3", Name: "run()", Class: "com.example.Job"})
	fmt.Println(inv)
	// Output: invoke #1 (indirect) in com.example.App.start() at bci 8: java.lang.Runnable.run() -> [com.example.Job.run()]
}
