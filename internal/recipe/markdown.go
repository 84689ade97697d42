package recipe

import (
	"fmt"
	"strings"
)

// Markdown renders the recipe as plain Markdown. When checked is non-nil the
// output is a task list and each item's box reflects the checklist state,
// keyed by the same id scheme the checklist engine uses.
func Markdown(r *Recipe, checked map[string]bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	fmt.Fprintf(&b, "**Total Time:** %d minutes\n\n", r.TotalTimeMinutes)

	b.WriteString("## Ingredients\n\n")
	for i, ing := range r.Ingredients {
		writeItem(&b, 0, checked, fmt.Sprintf("ingredient-%d", i),
			fmt.Sprintf("%s %s", ing.Quantity, ing.Name))
	}

	b.WriteString("\n## Equipment\n\n")
	for i, item := range r.Equipment {
		writeItem(&b, 0, checked, fmt.Sprintf("equipment-%d", i), item)
	}

	b.WriteString("\n## Steps\n\n")
	for i, step := range r.Steps {
		stepID := fmt.Sprintf("step-%d", i)
		text := step.Description
		if step.DurationMinutes > 0 {
			text = fmt.Sprintf("%s (%d minutes)", text, step.DurationMinutes)
		}
		if checked != nil {
			writeItem(&b, 0, checked, stepID, text)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, text)
		}

		for j, sub := range step.Substeps {
			subID := fmt.Sprintf("%s-substep-%d", stepID, j)
			subText := sub.Description
			if sub.DurationMinutes != nil {
				subText = fmt.Sprintf("%s (%d minutes)", subText, *sub.DurationMinutes)
			}
			writeItem(&b, 1, checked, subID, subText)

			for k, ing := range sub.Ingredients {
				writeItem(&b, 2, checked, fmt.Sprintf("%s-ingredient-%d", subID, k),
					fmt.Sprintf("%s %s", ing.Quantity, ing.Name))
			}
		}
	}

	return b.String()
}

func writeItem(b *strings.Builder, depth int, checked map[string]bool, id, text string) {
	b.WriteString(strings.Repeat("  ", depth))
	if checked != nil {
		mark := " "
		if checked[id] {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s\n", mark, text)
		return
	}
	fmt.Fprintf(b, "- %s\n", text)
}
