// Package checklist implements the check-propagation rules for a rendered
// recipe.
//
// Items are addressed by hierarchical string ids: ingredient-{i},
// equipment-{i}, step-{i}, step-{i}-substep-{j} and
// step-{i}-substep-{j}-ingredient-{k}. The step tree is fixed at three
// levels, so parent, sibling, and child sets are pure functions of the id
// string and the recipe shape.
package checklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colebaker/mise/internal/recipe"
)

// State holds the checked flags for one rendered recipe instance. It lives
// entirely in memory and is not persisted.
type State struct {
	recipe  *recipe.Recipe
	checked map[string]bool
}

func New(r *recipe.Recipe) *State {
	return &State{
		recipe:  r,
		checked: make(map[string]bool),
	}
}

// Checked reports whether the given item is currently checked.
func (s *State) Checked(id string) bool {
	return s.checked[id]
}

// Snapshot returns a copy of the current checked flags.
func (s *State) Snapshot() map[string]bool {
	out := make(map[string]bool, len(s.checked))
	for k, v := range s.checked {
		out[k] = v
	}
	return out
}

// Toggle flips the item and propagates:
//
// Checking sets every descendant checked and walks upward, checking an
// ancestor only once all of its direct children are checked. Unchecking
// clears every descendant and unconditionally clears every ancestor, since
// none of them can still be fully checked.
func (s *State) Toggle(id string) {
	newValue := !s.checked[id]
	s.checked[id] = newValue

	for _, childID := range s.descendantIDs(id) {
		s.checked[childID] = newValue
	}

	if newValue {
		currentID := id
		parent := parentIDOf(currentID)
		for parent != "" {
			if !s.allSiblingsChecked(currentID) {
				break
			}
			s.checked[parent] = true
			currentID = parent
			parent = parentIDOf(currentID)
		}
	} else {
		for p := parentIDOf(id); p != ""; p = parentIDOf(p) {
			s.checked[p] = false
		}
	}
}

// parentIDOf returns the parent of the given item id, or "" for roots.
func parentIDOf(id string) string {
	if idx := strings.Index(id, "-ingredient-"); strings.HasPrefix(id, "step-") && idx != -1 {
		return id[:idx]
	}
	if idx := strings.Index(id, "-substep-"); idx != -1 {
		return id[:idx]
	}
	return ""
}

// siblingIDs returns every direct child of the item's parent, including the
// item itself, recomputed from the recipe shape.
func (s *State) siblingIDs(id string) []string {
	parent := parentIDOf(id)
	if parent == "" {
		return nil
	}

	if strings.Contains(id, "-ingredient-") {
		stepIdx, subIdx, ok := splitSubstepID(parent)
		if !ok {
			return nil
		}
		sub := s.substep(stepIdx, subIdx)
		if sub == nil {
			return nil
		}
		ids := make([]string, len(sub.Ingredients))
		for i := range sub.Ingredients {
			ids[i] = fmt.Sprintf("%s-ingredient-%d", parent, i)
		}
		return ids
	}

	stepIdx, ok := splitStepID(parent)
	if !ok || stepIdx >= len(s.recipe.Steps) {
		return nil
	}
	step := s.recipe.Steps[stepIdx]
	ids := make([]string, len(step.Substeps))
	for i := range step.Substeps {
		ids[i] = fmt.Sprintf("%s-substep-%d", parent, i)
	}
	return ids
}

func (s *State) allSiblingsChecked(id string) bool {
	siblings := s.siblingIDs(id)
	if len(siblings) == 0 {
		return false
	}
	for _, sib := range siblings {
		if !s.checked[sib] {
			return false
		}
	}
	return true
}

// descendantIDs returns every id strictly below the given item.
func (s *State) descendantIDs(id string) []string {
	if strings.Contains(id, "-ingredient-") {
		return nil
	}

	if stepIdx, subIdx, ok := splitSubstepID(id); ok {
		sub := s.substep(stepIdx, subIdx)
		if sub == nil {
			return nil
		}
		ids := make([]string, len(sub.Ingredients))
		for i := range sub.Ingredients {
			ids[i] = fmt.Sprintf("%s-ingredient-%d", id, i)
		}
		return ids
	}

	stepIdx, ok := splitStepID(id)
	if !ok || stepIdx >= len(s.recipe.Steps) {
		return nil
	}
	var ids []string
	for j, sub := range s.recipe.Steps[stepIdx].Substeps {
		subID := fmt.Sprintf("%s-substep-%d", id, j)
		ids = append(ids, subID)
		for k := range sub.Ingredients {
			ids = append(ids, fmt.Sprintf("%s-ingredient-%d", subID, k))
		}
	}
	return ids
}

func (s *State) substep(stepIdx, subIdx int) *recipe.Substep {
	if stepIdx < 0 || stepIdx >= len(s.recipe.Steps) {
		return nil
	}
	subs := s.recipe.Steps[stepIdx].Substeps
	if subIdx < 0 || subIdx >= len(subs) {
		return nil
	}
	return &subs[subIdx]
}

// splitStepID parses "step-{i}".
func splitStepID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "step-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitSubstepID parses "step-{i}-substep-{j}".
func splitSubstepID(id string) (stepIdx, subIdx int, ok bool) {
	stepPart, subPart, found := strings.Cut(id, "-substep-")
	if !found || strings.Contains(subPart, "-") {
		return 0, 0, false
	}
	stepIdx, ok = splitStepID(stepPart)
	if !ok {
		return 0, 0, false
	}
	subIdx, err := strconv.Atoi(subPart)
	if err != nil {
		return 0, 0, false
	}
	return stepIdx, subIdx, true
}
