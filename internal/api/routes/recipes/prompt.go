package recipes

import (
	"fmt"
	"strings"
)

const promptShape = `{
  "name": "Recipe Name",
  "url": "Recipe URL",
  "total_time_minutes": number,
  "ingredients": [
    { "name": "Ingredient Name", "quantity": "Quantity" }
  ],
  "equipment": [
    "Equipment Item"
  ],
  "steps": [
    {
      "description": "Step Description",
      "duration_minutes": number,
      "substeps": [
        {
          "description": "Substep Description",
          "duration_minutes": number (optional),
          "ingredients": [
            { "name": "Ingredient Name", "quantity": "Quantity" }
          ]
        }
      ]
    }
  ]
}`

var promptGuidelines = []string{
	"The ingredients should be a list with quantities.",
	"The equipment should be a list of equipment needed. Be specific about the measuring cup and spoon sizes needed.",
	"Each step should have a description, duration in minutes, and a list of substeps.",
	"Each sentence within a step should be a substep.",
	"If a step or substep contains a list of ingredients, each ingredient should be a separate ingredient in the substep.",
	"Include durations in minutes for each step and the total time.",
	"Take into account any estimated durations and actual specified durations in calculating the time for each step.",
	"If a step has no specified duration, estimate a reasonable duration in minutes.",
	"Make sure the total time is the sum of all the step times.",
	"Ignore anything from the input that is not relevant to the recipe.",
}

// buildPrompt assembles the structuring prompt sent to the chat model. The
// model is instructed to reply with the JSON object alone so the response
// can be parsed directly.
func buildPrompt(req RefineRecipeRequest) string {
	var b strings.Builder

	b.WriteString("A recipe name, optional recipe URL, and recipe is attached, copied from a web page. ")
	b.WriteString("Your task is to create a cleaned-up recipe that is easier to follow and return it in a specific JSON format. ")
	b.WriteString("Important: Return ONLY the JSON object, without any additional text, markdown formatting, or code blocks. ")
	b.WriteString("The JSON should have this structure:\n\n")
	b.WriteString(promptShape)
	b.WriteString("\n\nGuidelines:\n")
	for _, guideline := range promptGuidelines {
		fmt.Fprintf(&b, "- %s\n", guideline)
	}
	if req.ReadyTime != "" {
		fmt.Fprintf(&b, "- The dish should be ready at %s. "+
			"For each step, include a \"start_time\" (HH:MM) computed backwards from the ready time "+
			"using the step durations, so that following the steps in order finishes exactly at the ready time.\n",
			req.ReadyTime)
	}

	fmt.Fprintf(&b, "\nRecipe Name: %s\nRecipe URL: %s\n\nRecipe:\n%s\n",
		req.RecipeName, req.RecipeURL, req.RawRecipe)
	b.WriteString("\nRemember: Provide ONLY the JSON object in your response, with no additional text or formatting.\n")
	return b.String()
}
