package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"precioustime/internal/cache"
	"precioustime/internal/config"
	"precioustime/internal/gateway"
	"precioustime/internal/handlers"
	"precioustime/internal/helpline"
	"precioustime/internal/lifeexp"
	"precioustime/internal/refdata"
	"precioustime/internal/upstream"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Load static reference datasets (fallback tables, helplines, quotes)
	datasets, err := refdata.Load(cfg.DatasetsPath)
	if err != nil {
		log.Fatalf("Failed to load reference datasets: %v", err)
	}

	log.Printf("Reference datasets loaded (%d countries, %d helplines)", len(datasets.Countries), len(datasets.Helplines))

	// Open the observation cache unless disabled
	var store *cache.Store
	if cfg.CacheEnabled {
		store, err = cache.Open(cache.Config{
			Driver: cfg.CacheDriver,
			Path:   cfg.CachePath,
			URL:    cfg.CacheURL,
			TTL:    cfg.CacheTTL,
		})
		if err != nil {
			log.Fatalf("Failed to open observation cache: %v", err)
		}
		defer store.Close()

		log.Printf("Observation cache ready (driver: %s)", cfg.CacheDriver)
	}

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Upstream clients and the gateway in front of them
	whoClient := upstream.NewWHOClient(cfg.WHOBaseURL, cfg.UpstreamTimeout)
	quoteClient := upstream.NewQuoteClient(cfg.QuoteBaseURL, cfg.UpstreamTimeout)
	gw := gateway.New(whoClient, quoteClient, datasets, store)

	// Wizard-side pieces
	sessions := handlers.NewSessionStore(cfg.SessionMaxIdle)
	gatewayClient := lifeexp.NewClient(cfg.GatewayBaseURL, cfg.UpstreamTimeout)
	directory := helpline.NewDirectory(datasets.Helplines)
	wizardHandler := handlers.NewWizardHandler(sessions, gatewayClient, directory, datasets, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Gateway endpoints (CORS-open, consumable by any static frontend)
	mux.HandleFunc("GET /api/countries", gw.Countries)
	mux.HandleFunc("GET /api/life-expectancy", gw.LifeExpectancy)
	mux.HandleFunc("GET /api/quote", gw.Quote)

	// Wizard pages
	mux.HandleFunc("GET /{$}", handlers.EnsureSession(wizardHandler.Show))
	mux.HandleFunc("POST /wizard/advance", handlers.EnsureSession(wizardHandler.Advance))
	mux.HandleFunc("POST /wizard/restart", handlers.EnsureSession(wizardHandler.Restart))
	mux.HandleFunc("GET /help", handlers.EnsureSession(wizardHandler.ShowHelp))
	mux.HandleFunc("POST /help/close", handlers.EnsureSession(wizardHandler.CloseHelp))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.UpstreamTimeout, // results requests wait on upstream fetches
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// loadTemplates loads all page template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templatesPath)
	}

	funcMap := template.FuncMap{
		"hourLabel": func(hours float64) string {
			if hours == 1 {
				return "1 hour"
			}
			return fmt.Sprintf("%g hours", hours)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}
