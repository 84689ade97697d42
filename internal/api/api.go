// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	_ "github.com/colebaker/mise/docs"
	"github.com/colebaker/mise/internal/api/middleware"
	"github.com/colebaker/mise/internal/api/routes/apikey"
	"github.com/colebaker/mise/internal/api/routes/auth"
	"github.com/colebaker/mise/internal/api/routes/ping"
	"github.com/colebaker/mise/internal/api/routes/recipes"
	"github.com/colebaker/mise/internal/api/routes/transcribe"
	"github.com/colebaker/mise/internal/api/routes/users"
	"github.com/colebaker/mise/internal/env"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	serverPort = 8080
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/google", auth.HandleGoogleRedirect)
			r.Get("/google/callback", auth.HandleGoogleCallback)
			r.Post("/email", auth.HandleEmailSignIn)
			r.Get("/email/verify", auth.HandleEmailVerify)
			r.Post("/refresh", auth.HandleRefresh)
			r.Post("/logout", auth.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate)
				r.Get("/session", auth.HandleVerifySession)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate)

			r.Get("/check-api-key", apikey.HandleCheckAPIKey)
			r.Post("/store-api-key", apikey.HandleStoreAPIKey)
			r.Delete("/store-api-key", apikey.HandleDeleteAPIKey)

			r.Post("/refine-recipe", recipes.HandleRefineRecipe)
			r.Post("/fetch-recipe-url", recipes.HandleFetchRecipeURL)
			r.Post("/save-recipe", recipes.HandleSaveRecipe)
			r.Get("/recipes", recipes.HandleListRecipes)
			r.Get("/recipes/{id}", recipes.HandleGetRecipe)
			r.Delete("/recipes/{id}", recipes.HandleDeleteRecipe)

			r.Post("/speech-to-text", transcribe.HandleSpeechToText)

			r.Get("/users/me", users.HandleGetMe)
			r.Post("/users/me/avatar", users.HandleUploadAvatar)
		})
	})
}

// Start godoc
//
//	@title						Mise API
//	@version					1.0
//	@description				API server for the Mise recipe refiner.
//
//	@securityDefinitions.apikey	AccessTokenCookie
//	@in							cookie
//	@name						access
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", serverPort))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", serverPort), nil)
}
