// Package recipes contains handlers for in-memory recipe refinement and the
// persisted recipe store.
package recipes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/requestid"
	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/env"
	"github.com/colebaker/mise/internal/extract"
	mJson "github.com/colebaker/mise/internal/json"
	"github.com/colebaker/mise/internal/openai"
	"github.com/colebaker/mise/internal/recipe"
	"github.com/colebaker/mise/internal/vault"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

const defaultRecipeTitle = "Untitled Recipe"

// HandleRefineRecipe godoc
//
//	@Summary		Structure a raw recipe with the caller's OpenAI key.
//	@Description	Sends the raw recipe text to chat completions with JSON-only
//	@Description	instructions, validates the returned shape, and renders a
//	@Description	Markdown view alongside. Nothing is persisted.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	RefineRecipeResponse
//	@Failure		400	{object}	apiError.Error	"Missing fields or no stored API key"
//	@Failure		401	{object}	apiError.Error	"Authentication required"
//	@Failure		500	{object}	apiError.Error	"Upstream failure or invalid shape"
//	@Security		AccessTokenCookie
//	@Router			/api/refine-recipe [post]
func HandleRefineRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request RefineRecipeRequest
	if err := mJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "rawRecipe and model are required", requestID)
		return
	}

	// The stored-key check happens before any decrypt work.
	apiKey, err := env.Vault.DecryptedAPIKey(ctx, env.Database, sess.Email)
	if errors.Is(err, vault.ErrNoAPIKey) {
		env.Logger.ErrorContext(ctx, "no api key stored for user")
		_ = apiError.EncodeError(w, apiError.MissingAPIKey, "OpenAI API key not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decrypt api key", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "calling chat completions", slog.String("model", request.Model))
	client := newOpenAIClient(env, apiKey)
	content, err := client.ChatCompletion(ctx, request.Model, buildPrompt(request))
	if err != nil {
		env.Logger.ErrorContext(ctx, "chat completion failed", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamFailure, "no response from OpenAI", requestID)
		return
	}

	// Parse the model's reply and check the shape explicitly, so a
	// malformed reply surfaces here instead of as a nil deref later.
	var refined recipe.Recipe
	if err := json.Unmarshal([]byte(content), &refined); err != nil {
		env.Logger.ErrorContext(ctx, "model reply is not valid json", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamInvalidShape, "invalid JSON response from OpenAI", requestID)
		return
	}
	if err := refined.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "model reply has an invalid recipe shape", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamInvalidShape, "invalid recipe shape from OpenAI", requestID)
		return
	}

	writeJSON(w, r, RefineRecipeResponse{
		JSONOutput: &refined,
		TextOutput: recipe.Markdown(&refined, nil),
	})
}

// HandleFetchRecipeURL godoc
//
//	@Summary	Fetch a recipe page and strip it to plain text.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	FetchRecipeURLResponse
//	@Failure	400	{object}	apiError.Error	"Missing or invalid URL"
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	500	{object}	apiError.Error	"Fetch failed"
//	@Security	AccessTokenCookie
//	@Router		/api/fetch-recipe-url [post]
func HandleFetchRecipeURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var request FetchRecipeURLRequest
	if err := mJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	if err := extract.ValidateURL(request.URL); err != nil {
		env.Logger.ErrorContext(ctx, "invalid url", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidURL, "a valid URL is required", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "fetching recipe page", slog.String("url", request.URL))
	page, err := extract.Fetch(ctx, env.HTTP, request.URL)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch recipe page", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamFailure, "failed to fetch recipe", requestID)
		return
	}

	writeJSON(w, r, FetchRecipeURLResponse{
		Title:   page.Title,
		Content: page.Content,
	})
}

// HandleSaveRecipe godoc
//
//	@Summary	Persist a structured recipe for the caller.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	SaveRecipeResponse
//	@Failure	400	{object}	apiError.Error	"Missing recipe"
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/save-recipe [post]
func HandleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request SaveRecipeRequest
	if err := mJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	if len(request.Recipe) == 0 {
		_ = apiError.EncodeError(w, apiError.BadRequest, "recipe is required", requestID)
		return
	}

	// Title precedence: explicit title, then the recipe's own name.
	title := request.Title
	if title == "" {
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(request.Recipe, &named); err != nil {
			env.Logger.ErrorContext(ctx, "recipe is not a json object", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.BadRequest, "recipe must be a JSON object", requestID)
			return
		}
		title = named.Name
	}
	if title == "" {
		title = defaultRecipeTitle
	}

	env.Logger.DebugContext(ctx, "saving recipe")
	row, err := env.Database.CreateUserRecipe(ctx, database.CreateUserRecipeParams{
		UserID:  sess.UserID,
		Title:   title,
		Content: request.Recipe,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to save recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, r, SaveRecipeResponse{ID: row.ID, Title: row.Title})
}

// HandleListRecipes godoc
//
//	@Summary	List the caller's saved recipes.
//	@Tags		Recipes
//	@Produce	json
//	@Success	200	{array}		RecipeSummary
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/recipes [get]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	rows, err := env.Database.ListUserRecipes(ctx, sess.UserID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	summaries := make([]RecipeSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, RecipeSummary{ID: row.ID, Name: row.Title})
	}
	writeJSON(w, r, summaries)
}

// HandleGetRecipe godoc
//
//	@Summary	Fetch one saved recipe.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipe.Recipe
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	403	{object}	apiError.Error	"Recipe owned by someone else"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [get]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "recipe id must be an integer", requestID)
		return
	}

	row, err := env.Database.GetUserRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if row.UserID != sess.UserID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(row.Content); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete one saved recipe.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204	"Recipe deleted"
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	403	{object}	apiError.Error	"Recipe owned by someone else"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [delete]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "recipe id must be an integer", requestID)
		return
	}

	// The delete statement matches id and owner together, so a row owned
	// by someone else is left untouched.
	affected, err := env.Database.DeleteUserRecipe(ctx, database.DeleteUserRecipeParams{
		ID:     recipeID,
		UserID: sess.UserID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if affected == 0 {
		// Distinguish missing from not-owned for the status code.
		_, err := env.Database.GetUserRecipe(ctx, recipeID)
		if errors.Is(err, pgx.ErrNoRows) {
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check recipe existence", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newOpenAIClient(e *env.Env, apiKey string) *openai.Client {
	opts := []openai.Option{openai.WithHTTPDoer(e.HTTP)}
	if e.Config.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(e.Config.OpenAI.BaseURL))
	}
	return openai.New(apiKey, opts...)
}

func writeJSON(w http.ResponseWriter, r *http.Request, body any) {
	ctx := r.Context()
	env := env.FromCtx(ctx)

	resp, err := json.Marshal(body)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, strconv.FormatUint(requestid.ExtractRequestID(ctx), 10))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}
