// Package conformance turns protobuf conformance runner output into
// aggregated pass/fail trees, markdown tables and badge references.
package conformance

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors of the result tree. Callers match them with errors.Is to
// pick an exit code; the tree itself never skips or repairs bad data.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownTest     = errors.New("unknown test")
	ErrPathConflict    = errors.New("path conflict")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// Tree is one node of the result hierarchy. Interior names live in
// Categories, test names with their pass/fail state in Tests. A name never
// appears in both maps of the same node, so a result can't silently shadow
// a whole category or vice versa.
type Tree struct {
	Categories map[string]*Tree
	Tests      map[string]bool
}

// NewTree returns an empty result tree.
func NewTree() *Tree {
	return &Tree{
		Categories: make(map[string]*Tree),
		Tests:      make(map[string]bool),
	}
}

// Insert records a test result at path, creating missing intermediate
// categories on the way. Descending through a name already recorded as a
// test, or recording a result under a name already used as a category,
// fails with ErrPathConflict. Repeating an identical insert is a no-op.
func (t *Tree) Insert(path []string, passed bool) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrMalformedIdentifier)
	}
	node := t
	for i, name := range path[:len(path)-1] {
		if _, ok := node.Tests[name]; ok {
			return fmt.Errorf("%w: %q is a test, cannot descend into it while inserting %q",
				ErrPathConflict, strings.Join(path[:i+1], "."), strings.Join(path, "."))
		}
		child, ok := node.Categories[name]
		if !ok {
			child = NewTree()
			if node.Categories == nil {
				node.Categories = make(map[string]*Tree)
			}
			node.Categories[name] = child
		}
		node = child
	}

	leaf := path[len(path)-1]
	if _, ok := node.Categories[leaf]; ok {
		return fmt.Errorf("%w: %q is a category, cannot record a test result for it",
			ErrPathConflict, strings.Join(path, "."))
	}
	if node.Tests == nil {
		node.Tests = make(map[string]bool)
	}
	node.Tests[leaf] = passed
	return nil
}

// SetExisting overwrites the result of a test that is already present.
// Unlike Insert it never creates structure: an absent intermediate fails
// with ErrUnknownCategory, an absent leaf with ErrUnknownTest, and a name of
// the wrong kind with ErrTypeMismatch. On error the tree is left untouched.
func (t *Tree) SetExisting(path []string, passed bool) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrMalformedIdentifier)
	}
	node := t
	for i, name := range path[:len(path)-1] {
		if _, ok := node.Tests[name]; ok {
			return fmt.Errorf("%w: %q is a test, not a category (resolving %q)",
				ErrTypeMismatch, strings.Join(path[:i+1], "."), strings.Join(path, "."))
		}
		child, ok := node.Categories[name]
		if !ok {
			return fmt.Errorf("%w: %q (resolving %q)",
				ErrUnknownCategory, strings.Join(path[:i+1], "."), strings.Join(path, "."))
		}
		node = child
	}

	leaf := path[len(path)-1]
	if _, ok := node.Categories[leaf]; ok {
		return fmt.Errorf("%w: %q is a category, not a test",
			ErrTypeMismatch, strings.Join(path, "."))
	}
	if _, ok := node.Tests[leaf]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTest, strings.Join(path, "."))
	}
	node.Tests[leaf] = passed
	return nil
}

// CountTests returns the number of tests under the tree, subcategories
// included.
func (t *Tree) CountTests() int {
	n := len(t.Tests)
	for _, child := range t.Categories {
		n += child.CountTests()
	}
	return n
}

// CountPassing returns the number of passing tests under the tree,
// subcategories included.
func (t *Tree) CountPassing() int {
	n := 0
	for _, passed := range t.Tests {
		if passed {
			n++
		}
	}
	for _, child := range t.Categories {
		n += child.CountPassing()
	}
	return n
}

// Subtree returns the node at the given category path. The empty path
// returns the tree itself. Paths through absent names, or through names
// recorded as tests, fail with ErrUnknownCategory.
func (t *Tree) Subtree(path []string) (*Tree, error) {
	node := t
	for i, name := range path {
		if _, ok := node.Tests[name]; ok {
			return nil, fmt.Errorf("%w: %q is a test, not a category",
				ErrUnknownCategory, strings.Join(path[:i+1], "."))
		}
		child, ok := node.Categories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, strings.Join(path[:i+1], "."))
		}
		node = child
	}
	return node, nil
}

// Clone returns a deep copy sharing no structure with the original, so the
// canonical baseline can be handed to every implementation diff untouched.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		Categories: make(map[string]*Tree, len(t.Categories)),
		Tests:      make(map[string]bool, len(t.Tests)),
	}
	for name, child := range t.Categories {
		c.Categories[name] = child.Clone()
	}
	for name, passed := range t.Tests {
		c.Tests[name] = passed
	}
	return c
}
