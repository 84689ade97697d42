package recipes

import (
	"github.com/colebaker/mise/internal/recipe"
)

type RefineRecipeResponse struct {
	JSONOutput *recipe.Recipe `json:"jsonOutput"`
	TextOutput string         `json:"textOutput"`
}

type FetchRecipeURLResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SaveRecipeResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type RecipeSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
