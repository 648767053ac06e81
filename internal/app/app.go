// Package app wires configuration, stores, the classifier and the HTTP
// handlers into a runnable application.
package app

import (
	"context"
	"fmt"
	"net/http"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/classifier"
	"cancerpredict/internal/config"
	"cancerpredict/internal/database"
	"cancerpredict/internal/handlers"
	"cancerpredict/internal/middleware"
	"cancerpredict/internal/services"
	"cancerpredict/internal/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	usersDB    *database.DB
	historyDB  *database.DB
	engine     *classifier.Engine
	users      *auth.UserService
	history    *services.HistoryService
	prediction *services.PredictionService
	router     http.Handler
}

// New opens both stores and loads the model artifacts. Any failure here
// means the application cannot serve predictions.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	engine, err := classifier.Load(cfg.ScalerPath(), cfg.ModelPath())
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("scaler", cfg.ScalerPath()).
		Str("model", cfg.ModelPath()).
		Int("features", engine.NumFeatures()).
		Msg("model artifacts loaded")

	usersDB, err := database.Open(ctx, cfg.UsersDBPath(), database.UsersSchema)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	historyDB, err := database.Open(ctx, cfg.HistoryDBPath(), database.HistorySchema)
	if err != nil {
		usersDB.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}

	a := &App{
		cfg:       cfg,
		log:       log,
		usersDB:   usersDB,
		historyDB: historyDB,
		engine:    engine,
		users:     auth.NewUserService(usersDB, cfg.BcryptCost),
		history:   services.NewHistoryService(historyDB),
	}
	a.prediction = services.NewPredictionService(engine, a.history)

	users, err := a.users.Count(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("credential store: %w", err)
	}
	log.Info().
		Str("users_db", cfg.UsersDBPath()).
		Str("history_db", cfg.HistoryDBPath()).
		Int("registered_users", users).
		Msg("stores opened")

	if a.router, err = a.routes(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Close() error {
	herr := a.historyDB.Close()
	uerr := a.usersDB.Close()
	if herr != nil {
		return herr
	}
	return uerr
}

func (a *App) routes() (http.Handler, error) {
	templates, err := web.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	sessionManager := auth.NewSessionManager(a.cfg.SessionSecret, a.cfg.SessionMaxAge)
	marker := auth.NewLastUserMarker(a.cfg.MarkerPath())

	authMiddleware := middleware.NewAuthMiddleware(sessionManager, marker, a.cfg.AutoReconnect, a.log)

	authHandler := handlers.NewAuthHandler(templates, sessionManager, a.users, marker, authMiddleware, a.log)
	predictHandler := handlers.NewPredictHandler(templates, a.prediction, a.history, a.log)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"users":   a.usersDB,
		"history": a.historyDB,
	})

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(a.log))
	r.Use(chimiddleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/healthz", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/", predictHandler.Dashboard)
		r.Post("/predict", predictHandler.Predict)
		r.Post("/predict/batch", predictHandler.PredictBatch)
		r.Get("/history", predictHandler.History)
		r.Get("/history/export", predictHandler.ExportHistory)
	})

	return r, nil
}
