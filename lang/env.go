package lang

import "log/slog"

// Scope identifies a frame in an [Environment].
type Scope int

// noScope is the parent of the root frame.
const noScope Scope = -1

// frame maps names to values. A name appears at most once per frame.
type frame struct {
	parent Scope
	vars   map[string]Value
	consts map[string]struct{}
}

// Environment is a chain of frames stored in an arena and addressed by
// index. Lookups walk from the current frame outward to the root, so a name
// in an inner frame shadows the same name in an outer one.
type Environment struct {
	frames  []frame
	current Scope
}

// NewEnvironment returns an environment holding only a root frame.
func NewEnvironment() *Environment {
	env := new(Environment)
	env.frames = []frame{newFrame(noScope)}

	return env
}

func newFrame(parent Scope) frame {
	return frame{
		parent: parent,
		vars:   make(map[string]Value),
		consts: make(map[string]struct{}),
	}
}

// Push opens a new frame nested in the current one and makes it current.
func (e *Environment) Push() Scope {
	e.frames = append(e.frames, newFrame(e.current))
	e.current = Scope(len(e.frames) - 1)

	return e.current
}

// Pop discards the current frame and makes its parent current.
// It reports false, and does nothing, if the current frame is the root.
func (e *Environment) Pop() bool {
	parent := e.frames[e.current].parent
	if parent == noScope {
		return false
	}

	e.frames = e.frames[:e.current]
	e.current = parent

	return true
}

// Depth returns the number of frames in the chain, including the root.
func (e *Environment) Depth() int {
	n := 0
	for s := e.current; s != noScope; s = e.frames[s].parent {
		n++
	}

	return n
}

// Declare binds name in the current frame, optionally marking it constant,
// and returns the stored value. It fails if the current frame already binds
// name; bindings in outer frames are shadowed, not rejected.
func (e *Environment) Declare(name string, v Value, constant bool) (Value, error) {
	f := &e.frames[e.current]

	if _, exists := f.vars[name]; exists {
		return Value{}, ErrDuplicateDeclaration.
			Wrapf("cannot declare %q as it is already defined", name).
			With(slog.String("name", name))
	}

	f.vars[name] = v.Clone()

	if constant {
		f.consts[name] = struct{}{}
	}

	return v.Clone(), nil
}

// Resolve returns the innermost frame that binds name.
func (e *Environment) Resolve(name string) (Scope, error) {
	for s := e.current; s != noScope; s = e.frames[s].parent {
		if _, ok := e.frames[s].vars[name]; ok {
			return s, nil
		}
	}

	return noScope, ErrUnresolvedVariable.
		Wrapf("cannot resolve %q as it does not exist", name).
		With(slog.String("name", name))
}

// Lookup returns a copy of the value bound to name.
func (e *Environment) Lookup(name string) (Value, error) {
	s, err := e.Resolve(name)
	if err != nil {
		return Value{}, err
	}

	return e.frames[s].vars[name].Clone(), nil
}

// Assign overwrites the value bound to name in the frame that owns it and
// returns the stored value. It fails if name is unbound or was declared
// constant in that frame.
func (e *Environment) Assign(name string, v Value) (Value, error) {
	s, err := e.Resolve(name)
	if err != nil {
		return Value{}, err
	}

	f := &e.frames[s]

	if _, constant := f.consts[name]; constant {
		return Value{}, ErrConstantReassignment.
			Wrapf("cannot reassign %q as it is constant", name).
			With(slog.String("name", name))
	}

	f.vars[name] = v.Clone()

	return v.Clone(), nil
}

// IsConstant reports whether the innermost binding of name is constant.
func (e *Environment) IsConstant(name string) bool {
	s, err := e.Resolve(name)
	if err != nil {
		return false
	}

	_, constant := e.frames[s].consts[name]

	return constant
}

// Names returns every visible name in sorted order. Shadowed names appear
// once.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for s := e.current; s != noScope; s = e.frames[s].parent {
		for name := range e.frames[s].vars {
			seen[name] = struct{}{}
		}
	}

	if names := sortedKeys(seen); names != nil {
		return names
	}

	return []string{}
}
