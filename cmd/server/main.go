package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/user/stockledger/internal/auth"
	"github.com/user/stockledger/internal/config"
	"github.com/user/stockledger/internal/database"
	"github.com/user/stockledger/internal/handlers"
	"github.com/user/stockledger/internal/ledger"
	"github.com/user/stockledger/internal/middleware"
	"github.com/user/stockledger/internal/quotes"
	internalws "github.com/user/stockledger/internal/websocket"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Simulated stock trading ledger service",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		os.Getenv("STOCKLEDGER_CONFIG"), "path to YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the API server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema",
			RunE:  runMigrate,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := database.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}
	log.Println("Schema applied")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := database.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenDuration())

	// The simulator doubles as the price stream; with an external provider
	// there is no stream to broadcast.
	var provider quotes.Provider
	var hub *internalws.Hub
	switch cfg.Quotes.Provider {
	case config.ProviderAlphaVantage:
		provider = quotes.NewAlphaVantage(cfg.Quotes.AlphaVantageKey)
	default:
		sim := quotes.NewSimulator()
		sim.Start(context.Background())
		hub = internalws.NewHub(sim.Updates)
		go hub.Run()
		provider = sim
	}

	svc := ledger.NewService(store, provider)
	h := handlers.New(svc, tokens, hub)

	app := fiber.New()

	// --- WebSocket routes ---
	if hub != nil {
		wsGroup := app.Group("/ws")
		wsGroup.Use("/", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		wsGroup.Get("/prices", websocket.New(h.PriceStream))
	}

	// --- API routes ---
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("stockledger API is healthy!")
	})

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)

	// Everything below requires a valid token.
	api.Use(middleware.Protected(tokens))

	api.Get("/me", h.Me)
	api.Get("/quote/:symbol", h.GetQuote)
	api.Get("/portfolio", h.GetPortfolio)
	api.Get("/history", h.GetHistory)
	api.Post("/buy", h.Buy)
	api.Post("/sell", h.Sell)
	api.Post("/deposit", h.Deposit)
	api.Post("/password", h.ChangePassword)

	log.Println("Starting server on", cfg.Listen)
	return app.Listen(cfg.Listen)
}
