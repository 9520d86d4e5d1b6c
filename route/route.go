package route

import (
	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/handler"
	authmw "github.com/akihiro4321/favefit-sub001/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Profile  handler.ProfileHandler
	Favorite handler.FavoriteHandler
	Plan     handler.PlanHandler
	Feedback handler.FeedbackHandler
}

func SetupRouter(cfg *entity.Config, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/healthz", handler.Health)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authmw.Authenticate(cfg.Auth.JWTSecret))

		r.Get("/profile", h.Profile.GetProfile)
		r.Put("/profile", h.Profile.SaveProfile)
		r.Get("/profile/targets", h.Profile.GetTargets)

		r.Get("/preferences/learned", h.Feedback.GetLearnedPreferences)
		r.Post("/feedback", h.Feedback.SubmitFeedback)

		r.Get("/favorites", h.Favorite.ListFavorites)
		r.Post("/favorites", h.Favorite.AddFavorite)

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.Plan.CreatePlan)
			r.Get("/latest", h.Plan.GetLatestPlan)
			r.Route("/{plan_id}", func(r chi.Router) {
				r.Get("/", h.Plan.GetPlan)
				r.Get("/shopping-list", h.Plan.GetShoppingList)
				r.Patch("/shopping-list/{index}", h.Plan.UpdateShoppingItem)
				r.Post("/days/{date}/meals/{slot}/cook", h.Plan.CookMeal)
				r.Post("/days/{date}/meals/{slot}/swap", h.Plan.SwapMeal)
			})
		})
	})

	return r
}
