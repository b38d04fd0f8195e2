package runtime

// Environment is one frame of the lexical scope chain: an owned set of
// bindings plus a reference to the enclosing frame. Closures hold on to the
// frame that was active at their definition, which keeps it alive past the
// block that created it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a frame, optionally nested under a parent. A nil
// parent makes it a global frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current frame. Redefining a
// name already bound here overwrites it.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the nearest frame where the name
// appears, and reports false when no frame binds it.
func (e *Environment) Assign(name string, value Value) bool {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return false
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Extend creates a child frame of the current one.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Names returns the bindings of this frame alone, in sorted order. The
// REPL's .vars directive lists the session frame with it.
func (e *Environment) Names() []string {
	return sortedKeys(e.values)
}
