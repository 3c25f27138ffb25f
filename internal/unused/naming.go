package unused

import "fmt"

// Diagnostic ids are stable strings, not enums: they get persisted in
// suppression comments and editor configuration, so renaming the Go
// constant must never change the wire value.
const (
	DiagnosticValueUnused      = "unusedValueAssigned"
	DiagnosticExpressionUnused = "unusedExpressionValue"
	DiagnosticParameterUnused  = "unusedParameter"
)

// allDiagnosticIDs is used by the coordinator to pre-resolve every
// preference it might need for a method in one batch, rather than
// querying the options provider lazily mid-walk.
var allDiagnosticIDs = []string{
	DiagnosticValueUnused,
	DiagnosticExpressionUnused,
	DiagnosticParameterUnused,
}

// NameAllocator generates the `unused`, `unused1`, `unused2`, ...
// sequence a PreferUnusedLocal fix renames a dead binding to, skipping
// any candidate a caller-supplied predicate reports as already taken
// in the enclosing scope. Each Coordinator.AnalyzeMethod call gets its
// own allocator so two unrelated dead locals in the same method don't
// collide on the same generated name.
type NameAllocator struct {
	taken func(name string) bool
	next  int
}

// NewNameAllocator builds an allocator. taken may be nil, in which case
// every candidate is accepted on first offer.
func NewNameAllocator(taken func(name string) bool) *NameAllocator {
	return &NameAllocator{taken: taken}
}

// Next returns the next unused-local name not reported taken.
func (a *NameAllocator) Next() string {
	for {
		name := "unused"
		if a.next > 0 {
			name = fmt.Sprintf("unused%d", a.next)
		}
		a.next++
		if a.taken == nil || !a.taken(name) {
			return name
		}
	}
}
