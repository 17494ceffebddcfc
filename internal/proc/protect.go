package proc

// maxAncestorDepth bounds the ancestry climb. Four generations covers the
// usual shell → terminal → host chain with room to spare.
const maxAncestorDepth = 4

// ProtectedSet is the set of process identifiers that must never be targeted
// for closure. It is computed once per run and read-only afterwards.
type ProtectedSet map[int32]struct{}

// Contains reports whether pid is protected.
func (s ProtectedSet) Contains(pid int32) bool {
	_, ok := s[pid]
	return ok
}

// Protect computes the protected set for self: self itself, its ancestors up
// to maxAncestorDepth generations, and the direct children of everything in
// that chain. Protecting the children shields sibling terminal tabs and panes
// hosted by a shared parent.
//
// A failed parent or children query truncates the climb at that point instead
// of aborting; a partially protected run beats no run at all.
func Protect(self int32, tree Tree) ProtectedSet {
	set := ProtectedSet{self: {}}
	chain := []int32{self}

	cur := self
	for i := 0; i < maxAncestorDepth; i++ {
		parent, err := tree.Parent(cur)
		if err != nil || parent <= 0 {
			break
		}
		if set.Contains(parent) {
			break // cycle guard
		}
		set[parent] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}

	for _, pid := range chain {
		children, err := tree.Children(pid)
		if err != nil {
			continue
		}
		for _, child := range children {
			set[child] = struct{}{}
		}
	}
	return set
}
