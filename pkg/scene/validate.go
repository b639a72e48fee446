package scene

import (
	"fmt"

	"github.com/matzehuels/visualtopo/pkg/errors"
)

// Validate checks node and link fields before they are handed to the engine.
//
// Rejected:
//   - empty or malformed ids (see [errors.ValidateID])
//   - non-finite positions or sizes
//   - negative sizes
//   - arrow styles outside the three defined variants
//
// Unknown link endpoints and duplicate node ids are not errors; see
// [Dangling] and [Duplicates].
func Validate(nodes []*Node, links []*Link) error {
	for i, n := range nodes {
		if n == nil {
			return errors.New(errors.ErrCodeInvalidInput, "node %d is nil", i)
		}
		if err := errors.ValidateID("node", n.ID); err != nil {
			return err
		}
		name := fmt.Sprintf("node %s", n.ID)
		if err := errors.ValidateFinite(name, n.X, n.Y, n.W, n.H); err != nil {
			return err
		}
		if n.W < 0 || n.H < 0 {
			return errors.New(errors.ErrCodeInvalidGeometry, "%s: size must not be negative", name)
		}
	}
	for i, l := range links {
		if l == nil {
			return errors.New(errors.ErrCodeInvalidInput, "link %d is nil", i)
		}
		if err := errors.ValidateID("link", l.ID); err != nil {
			return err
		}
		if !l.Arrow.Valid() {
			return errors.New(errors.ErrCodeInvalidArrow, "link %s: invalid arrow style %d", l.ID, int(l.Arrow))
		}
		if l.StrokeWidth < 0 {
			return errors.New(errors.ErrCodeInvalidGeometry, "link %s: stroke width must not be negative", l.ID)
		}
	}
	return nil
}

// Dangling returns the ids of links whose source or target is not a node id.
func Dangling(nodes []*Node, links []*Link) []string {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n != nil {
			ids[n.ID] = true
		}
	}
	var out []string
	for _, l := range links {
		if l != nil && (!ids[l.Source] || !ids[l.Target]) {
			out = append(out, l.ID)
		}
	}
	return out
}

// Duplicates returns node ids that occur more than once, in first-seen order.
func Duplicates(nodes []*Node) []string {
	return NewStore().SetNodes(nodes)
}
