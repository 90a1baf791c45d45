package schema

import "github.com/m2osw/prinbee/pkg/perrors"

// MaxComplexTypeReferenceDepth bounds how deeply one user-declared
// complex type may reference another before the registry rejects the
// schema as cyclic (spec.md §4.3).
const MaxComplexTypeReferenceDepth = 20

// ComplexType is a user-declared named type: a reusable descriptor list
// referenced from STRUCTURE/ARRAY* fields by name instead of inline.
type ComplexType struct {
	Name        string
	Fields      []*Descriptor
	referencesA []string // names of other complex types this one embeds
}

// Registry maps user-declared complex type names to their definition.
// It rejects names that shadow a built-in scalar type name or that are
// declared twice, and rejects reference cycles at registration time.
type Registry struct {
	byName map[string]*ComplexType
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*ComplexType)}
}

// Register adds a complex type. references lists the names of other
// complex types embedded by name within fields (the registry cannot
// discover these by walking fields alone, since a STRUCTURE field's
// sub-description may be inline rather than a named reference).
func (r *Registry) Register(name string, fields []*Descriptor, references []string) error {
	if !fieldNameRE.MatchString(name) {
		return perrors.New(perrors.InvalidParameter, "complex type name %q is not a valid identifier", name)
	}
	if _, builtin := ParseType(name); builtin {
		return perrors.New(perrors.InvalidParameter, "complex type %q shadows a built-in scalar type", name)
	}
	if _, exists := r.byName[name]; exists {
		return perrors.New(perrors.InvalidParameter, "complex type %q is already registered", name)
	}

	ct := &ComplexType{Name: name, Fields: fields, referencesA: references}
	r.byName[name] = ct

	if err := r.checkAcyclic(name, 0); err != nil {
		delete(r.byName, name)
		return err
	}
	return nil
}

// Get looks up a registered complex type by name.
func (r *Registry) Get(name string) (*ComplexType, bool) {
	ct, ok := r.byName[name]
	return ct, ok
}

func (r *Registry) checkAcyclic(name string, depth int) error {
	if depth > MaxComplexTypeReferenceDepth {
		return perrors.New(perrors.InvalidParameter, "complex type %q exceeds the maximum reference depth (%d), probably a cycle", name, MaxComplexTypeReferenceDepth)
	}
	ct, ok := r.byName[name]
	if !ok {
		return nil
	}
	seen := map[string]bool{name: true}
	return r.walk(ct, depth, seen)
}

func (r *Registry) walk(ct *ComplexType, depth int, seen map[string]bool) error {
	if depth > MaxComplexTypeReferenceDepth {
		return perrors.New(perrors.InvalidParameter, "complex type %q exceeds the maximum reference depth (%d), probably a cycle", ct.Name, MaxComplexTypeReferenceDepth)
	}
	for _, ref := range ct.referencesA {
		if seen[ref] {
			return perrors.New(perrors.InvalidParameter, "complex type %q has a cyclic reference back to %q", ct.Name, ref)
		}
		child, ok := r.byName[ref]
		if !ok {
			continue // forward reference not yet registered; checked when it is
		}
		seen[ref] = true
		if err := r.walk(child, depth+1, seen); err != nil {
			return err
		}
		delete(seen, ref)
	}
	return nil
}
