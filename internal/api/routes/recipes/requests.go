package recipes

import (
	"encoding/json"
)

type RefineRecipeRequest struct {
	RecipeName string `json:"recipeName"`
	RecipeURL  string `json:"recipeUrl"`
	RawRecipe  string `json:"rawRecipe" validate:"required"`
	Model      string `json:"model" validate:"required"`
	ReadyTime  string `json:"readyTime"`
}

type FetchRecipeURLRequest struct {
	URL string `json:"url" validate:"required"`
}

type SaveRecipeRequest struct {
	Title  string          `json:"title"`
	Recipe json.RawMessage `json:"recipe" validate:"required"`
}
