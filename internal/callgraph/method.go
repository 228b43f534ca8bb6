package callgraph

// Method represents a single method of the analyzed program. Methods are
// identified and described by the external bytecode analyzer; this model
// only references them and records which call sites their bodies contain.
type Method struct {
	ID           string
	Name         string
	Class        string // fully qualified declaring class
	IsEntryPoint bool

	invokes []*Invoke
}

// FullName returns the method's name qualified by its declaring class.
func (m *Method) FullName() string {
	if m.Class == "" {
		return m.Name
	}
	return m.Class + "." + m.Name
}

// Invokes returns the method's call sites in the order they were added.
// The returned slice is owned by the method and must not be modified.
func (m *Method) Invokes() []*Invoke {
	return m.invokes
}

func (m *Method) addInvoke(inv *Invoke) {
	m.invokes = append(m.invokes, inv)
}
