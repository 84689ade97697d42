package recipes

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	req := RefineRecipeRequest{
		RecipeName: "Focaccia",
		RecipeURL:  "https://example.com/focaccia",
		RawRecipe:  "Mix flour and water. Rest overnight.",
		Model:      "gpt-4o",
	}

	prompt := buildPrompt(req)

	for _, want := range []string{
		"Return ONLY the JSON object",
		`"total_time_minutes": number`,
		"Recipe Name: Focaccia",
		"Recipe URL: https://example.com/focaccia",
		"Mix flour and water. Rest overnight.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "start_time") {
		t.Error("prompt should not mention start times without a ready time")
	}
}

func TestBuildPrompt_ReadyTime(t *testing.T) {
	req := RefineRecipeRequest{
		RawRecipe: "Boil pasta.",
		Model:     "gpt-4o",
		ReadyTime: "18:30",
	}

	prompt := buildPrompt(req)

	if !strings.Contains(prompt, "ready at 18:30") {
		t.Error("prompt missing ready time instruction")
	}
	if !strings.Contains(prompt, `"start_time"`) {
		t.Error("prompt missing start_time instruction")
	}
}
