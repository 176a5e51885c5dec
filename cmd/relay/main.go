package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/qmenus/api/internal/config"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/relay"
	"github.com/qmenus/api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	hub := relay.NewHub()
	go hub.Run()

	queries := database.New(pool)

	// Socket-origin orders go through the same service as HTTP ones; the
	// relay emits to its own hub directly instead of calling itself.
	orders := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, relay.NewLocalEmitter(hub))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		relay.ServeWS(hub, queries, orders, w, r)
	})

	ingress := relay.NewIngress(hub, cfg.RelayToken)
	r.Route("/api", ingress.RegisterRoutes)

	log.Printf("Starting relay on :%s", cfg.RelayPort)
	if err := http.ListenAndServe(":"+cfg.RelayPort, r); err != nil {
		log.Fatal(err)
	}
}
