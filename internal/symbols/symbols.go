// Package symbols holds the flat variable and function tables the parser
// writes into while it resolves declarations. There is one namespace per
// table for the whole parse; nothing is ever removed.
package symbols

import (
	"fmt"
	"sort"

	"github.com/orizon-lang/kestrel/internal/position"
)

// Symbol is a declared variable
type Symbol struct {
	Name string
	Slot int // declaration order, starting at 0
	Pos  position.Position
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s#%d", s.Name, s.Slot)
}

// FunctionInfo is a declared function. It is registered as a placeholder
// when the declaration starts; Params is set once the parameter list is
// parsed and Body once the body is parsed.
type FunctionInfo struct {
	Name   string
	Params []string
	Body   any
	Pos    position.Position

	paramsSet bool
}

// SetParams records the parameter names and fixes the arity.
func (f *FunctionInfo) SetParams(names []string) {
	f.Params = names
	f.paramsSet = true
}

// SetBody attaches the parsed body.
func (f *FunctionInfo) SetBody(body any) {
	f.Body = body
}

// Arity returns the declared parameter count
func (f *FunctionInfo) Arity() int {
	return len(f.Params)
}

// HasParams reports whether the parameter list has been attached
func (f *FunctionInfo) HasParams() bool {
	return f.paramsSet
}

// Complete reports whether the declaration has been fully parsed
func (f *FunctionInfo) Complete() bool {
	return f.paramsSet && f.Body != nil
}

func (f *FunctionInfo) String() string {
	return fmt.Sprintf("%s/%d", f.Name, len(f.Params))
}

// DuplicateError is returned when a name is created twice
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%q already exists", e.Name)
}

// SymbolTable is a flat variable table
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

// NewSymbolTable creates an empty table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Lookup returns the symbol for name or nil
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.symbols[name]
}

// Create declares name. It fails if name is already present.
func (t *SymbolTable) Create(name string, pos position.Position) (*Symbol, error) {
	if _, exists := t.symbols[name]; exists {
		return nil, &DuplicateError{Name: name}
	}
	sym := &Symbol{Name: name, Slot: len(t.order), Pos: pos}
	t.symbols[name] = sym
	t.order = append(t.order, sym)
	return sym, nil
}

// Len returns the number of declared symbols
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// FunctionTable is a flat function table
type FunctionTable struct {
	functions map[string]*FunctionInfo
}

// NewFunctionTable creates an empty table
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{functions: make(map[string]*FunctionInfo)}
}

// Lookup returns the function registered under name or nil
func (t *FunctionTable) Lookup(name string) *FunctionInfo {
	return t.functions[name]
}

// Create registers a placeholder for name. It fails if name is already present.
func (t *FunctionTable) Create(name string, pos position.Position) (*FunctionInfo, error) {
	if _, exists := t.functions[name]; exists {
		return nil, &DuplicateError{Name: name}
	}
	fn := &FunctionInfo{Name: name, Pos: pos}
	t.functions[name] = fn
	return fn, nil
}

// Names returns the registered function names, sorted
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.functions))
	for name := range t.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
