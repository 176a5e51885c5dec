package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qmenus/api/internal/config"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/handler"
	mw "github.com/qmenus/api/internal/middleware"
	"github.com/qmenus/api/internal/service"
)

// New creates a chi router with all API routes wired up. Customer-facing
// order routes and auth are public; everything else requires a JWT scoped to
// a restaurant.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, emitter service.Emitter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, emitter)
	kitchenService := service.NewKitchenService(pool, func(db database.DBTX) service.KitchenStore {
		return database.New(db)
	}, emitter)

	orderHandler := handler.NewOrderHandler(orderService, queries)
	kitchenHandler := handler.NewKitchenHandler(kitchenService, queries)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	categoryHandler := handler.NewCategoryHandler(queries)
	menuHandler := handler.NewMenuHandler(queries)
	sectionHandler := handler.NewSectionHandler(queries)
	qrCodeHandler := handler.NewQRCodeHandler(queries)
	notificationHandler := handler.NewNotificationHandler(queries)

	r.Route("/api", func(r chi.Router) {
		// Public: login, token refresh, and the customer ordering flow. A
		// tracked order is addressed by its unguessable id.
		authHandler.RegisterRoutes(r)
		r.Group(orderHandler.RegisterPublicRoutes)
		r.Group(qrCodeHandler.RegisterPublicRoutes)

		// Restaurant staff routes.
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireRestaurant)

			orderHandler.RegisterCashierRoutes(r)
			kitchenHandler.RegisterRoutes(r)
			qrCodeHandler.RegisterRoutes(r)
			notificationHandler.RegisterRoutes(r)

			// Menu management is owner territory; cashiers only operate
			// orders and tables.
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("OWNER", "ADMIN"))
				categoryHandler.RegisterRoutes(r)
				menuHandler.RegisterRoutes(r)
				sectionHandler.RegisterRoutes(r)
			})
		})
	})

	return r
}
