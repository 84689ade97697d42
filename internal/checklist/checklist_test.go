package checklist

import (
	"testing"

	"github.com/colebaker/mise/internal/recipe"
)

func minutes(n int) *int { return &n }

// testRecipe builds a recipe with two steps. Step 0 has two substeps; the
// first substep carries two ingredients. Step 1 has one substep.
func testRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Name: "Bread",
		Ingredients: []recipe.Ingredient{
			{Name: "flour", Quantity: "500g"},
			{Name: "water", Quantity: "350ml"},
		},
		Equipment: []string{"mixing bowl", "oven"},
		Steps: []recipe.Step{
			{
				Description:     "Mix the dough",
				DurationMinutes: 15,
				Substeps: []recipe.Substep{
					{
						Description: "Combine dry ingredients",
						Ingredients: []recipe.Ingredient{
							{Name: "flour", Quantity: "500g"},
							{Name: "salt", Quantity: "10g"},
						},
					},
					{Description: "Add water", DurationMinutes: minutes(5)},
				},
			},
			{
				Description:     "Bake",
				DurationMinutes: 45,
				Substeps: []recipe.Substep{
					{Description: "Bake until golden"},
				},
			},
		},
		TotalTimeMinutes: 60,
	}
}

func TestToggleChecksDescendants(t *testing.T) {
	s := New(testRecipe())

	s.Toggle("step-0")

	wantChecked := []string{
		"step-0",
		"step-0-substep-0",
		"step-0-substep-0-ingredient-0",
		"step-0-substep-0-ingredient-1",
		"step-0-substep-1",
	}
	for _, id := range wantChecked {
		if !s.Checked(id) {
			t.Errorf("expected %q to be checked", id)
		}
	}
	if s.Checked("step-1") {
		t.Error("expected sibling step-1 to remain unchecked")
	}
}

func TestCheckingAllChildrenChecksParent(t *testing.T) {
	s := New(testRecipe())

	// Checking each leaf under step 0 should eventually roll up to the step.
	s.Toggle("step-0-substep-0-ingredient-0")
	if s.Checked("step-0-substep-0") {
		t.Error("substep checked before all of its ingredients")
	}

	s.Toggle("step-0-substep-0-ingredient-1")
	if !s.Checked("step-0-substep-0") {
		t.Error("expected substep to become checked once every ingredient is")
	}
	if s.Checked("step-0") {
		t.Error("step checked before all of its substeps")
	}

	s.Toggle("step-0-substep-1")
	if !s.Checked("step-0") {
		t.Error("expected step to become checked once every substep is")
	}
	if s.Checked("step-1") {
		t.Error("sibling step must not be affected")
	}
}

func TestUncheckingPropagatesUpAndDown(t *testing.T) {
	s := New(testRecipe())

	s.Toggle("step-0") // fully check the subtree

	s.Toggle("step-0-substep-0-ingredient-1") // uncheck one leaf

	if s.Checked("step-0-substep-0-ingredient-1") {
		t.Error("expected toggled leaf to be unchecked")
	}
	if s.Checked("step-0-substep-0") {
		t.Error("expected ancestor substep to be unchecked")
	}
	if s.Checked("step-0") {
		t.Error("expected ancestor step to be unchecked")
	}
	if !s.Checked("step-0-substep-1") {
		t.Error("unrelated sibling substep must stay checked")
	}
	if !s.Checked("step-0-substep-0-ingredient-0") {
		t.Error("sibling leaf must stay checked")
	}
}

func TestUncheckingStepClearsDescendants(t *testing.T) {
	s := New(testRecipe())

	s.Toggle("step-0")
	s.Toggle("step-0")

	for id := range s.Snapshot() {
		if s.Checked(id) {
			t.Errorf("expected %q to be unchecked", id)
		}
	}
}

func TestTopLevelItemsHaveNoHierarchy(t *testing.T) {
	s := New(testRecipe())

	s.Toggle("ingredient-0")
	s.Toggle("equipment-1")

	if !s.Checked("ingredient-0") || !s.Checked("equipment-1") {
		t.Error("expected top-level items to toggle")
	}
	if s.Checked("ingredient-1") || s.Checked("equipment-0") {
		t.Error("top-level toggles must not touch siblings")
	}
	if s.Checked("step-0") {
		t.Error("top-level toggles must not touch steps")
	}
}

func TestToggleUnknownIDIsIsolated(t *testing.T) {
	s := New(testRecipe())

	s.Toggle("step-9-substep-4")

	snapshot := s.Snapshot()
	delete(snapshot, "step-9-substep-4")
	for id, checked := range snapshot {
		if checked {
			t.Errorf("unexpected checked item %q", id)
		}
	}
}
