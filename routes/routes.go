package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pubgscore/tournament-service/handlers"
	"github.com/pubgscore/tournament-service/middleware"
)

// SetupRoutes собирает все маршруты сервиса. Просмотр турнира публичный,
// мутации требуют токен организатора.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	scoringHandler *handlers.ScoringHandler,
	conflictHandler *handlers.ConflictHandler,
	exportHandler *handlers.ExportHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws", webSocketHandler.ServeWs)

	router.Route("/tournament", func(r chi.Router) {
		// Публичные маршруты для зрителей
		r.Get("/", tournamentHandler.Get)
		r.Get("/standings", tournamentHandler.Standings)
		r.Get("/matches", matchHandler.List)
		r.Get("/export/json", exportHandler.JSON)
		r.Get("/export/csv", exportHandler.CSV)

		// Защищённые маршруты только для организатора
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("organizer"))

			r.Post("/", tournamentHandler.Create)
			r.Delete("/", tournamentHandler.Clear)
			r.Post("/matches", matchHandler.Add)
			r.Post("/matches/batch", matchHandler.AddBatch)
			r.Put("/scoring", scoringHandler.Update)
			r.Post("/scoring/preset", scoringHandler.ApplyPreset)
			r.Post("/conflicts/resolutions", conflictHandler.Resolve)
			r.Post("/export/upload", exportHandler.Upload)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize("organizer"))

		r.Get("/matches/search", matchHandler.Search)
	})
}
