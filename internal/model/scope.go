package model

// Scope is the ordered working set of classes for one pass invocation. It
// is owned by the orchestrator for the duration of the pass; plugins get
// mutable access only inside their configure/cleanup hooks and must not
// retain it. Order encodes load locality and is preserved by the packer.
type Scope struct {
	Classes []*DexClass

	byName map[string]*DexClass
}

// NewScope builds a scope over the given ordered classes.
func NewScope(classes []*DexClass) *Scope {
	scope := &Scope{
		Classes: classes,
		byName:  make(map[string]*DexClass, len(classes)),
	}
	for _, cls := range classes {
		scope.byName[cls.Name] = cls
	}

	return scope
}

// Len returns the number of classes currently in scope.
func (s *Scope) Len() int {
	return len(s.Classes)
}

// Find resolves a qualified class name to the class in scope, or nil when
// the name does not resolve (for example, removed by an earlier stage).
func (s *Scope) Find(name string) *DexClass {
	return s.byName[name]
}

// Append adds a class to the end of the scope. Adding a name already in
// scope replaces the lookup entry but keeps both positions; callers are
// expected to keep names unique.
func (s *Scope) Append(cls *DexClass) {
	s.Classes = append(s.Classes, cls)
	s.byName[cls.Name] = cls
}

// Remove drops the named class from the scope, preserving the relative
// order of the remaining classes. It reports whether the class was present.
func (s *Scope) Remove(name string) bool {
	if _, ok := s.byName[name]; !ok {
		return false
	}

	delete(s.byName, name)

	for i, cls := range s.Classes {
		if cls.Name == name {
			s.Classes = append(s.Classes[:i], s.Classes[i+1:]...)
			break
		}
	}

	return true
}
