// Package environment implements the lexically scoped variable chain
// described in spec.md §4.3: a singly linked chain of scopes, each
// holding its own identifier-to-value mapping, with lookups and
// assignments walking toward the global root.
package environment

import (
	"fmt"

	"github.com/kristofer/loxi/pkg/token"
)

// Environment is one scope in the chain. The global scope has a nil
// Enclosing.
type Environment struct {
	values    map[string]token.Literal
	Enclosing *Environment
}

// New creates a scope whose parent is enclosing. Pass nil to create the
// global scope.
func New(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]token.Literal),
		Enclosing: enclosing,
	}
}

// Define unconditionally inserts or overwrites name in this scope. This
// permits redefining a name already declared in the same scope.
func (e *Environment) Define(name string, value token.Literal) {
	e.values[name] = value
}

// Get looks up name, walking the scope chain toward the root. It fails
// with an "Undefined variable" error if name is bound nowhere in the
// chain.
func (e *Environment) Get(name string) (token.Literal, error) {
	if value, ok := e.values[name]; ok {
		return value, nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return token.Literal{}, undefinedVariableError(name)
}

// Assign overwrites the nearest scope in the chain (toward the root)
// that already defines name. It fails with the same "Undefined
// variable" error as Get if name is bound nowhere in the chain — Assign
// never creates a new binding.
func (e *Environment) Assign(name string, value token.Literal) error {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, value)
	}
	return undefinedVariableError(name)
}

func undefinedVariableError(name string) error {
	return fmt.Errorf("Undefined variable %s.", name)
}
