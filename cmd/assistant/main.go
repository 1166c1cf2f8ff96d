package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gin "github.com/gin-gonic/gin"
	api "github.com/inference-gateway/calendar-assistant/api"
	middlewares "github.com/inference-gateway/calendar-assistant/api/middlewares"
	assistant "github.com/inference-gateway/calendar-assistant/assistant"
	calendar "github.com/inference-gateway/calendar-assistant/calendar"
	config "github.com/inference-gateway/calendar-assistant/config"
	transport "github.com/inference-gateway/calendar-assistant/internal/transport"
	l "github.com/inference-gateway/calendar-assistant/logger"
	matcher "github.com/inference-gateway/calendar-assistant/matcher"
	nlu "github.com/inference-gateway/calendar-assistant/nlu"
	otel "github.com/inference-gateway/calendar-assistant/otel"
	providers "github.com/inference-gateway/calendar-assistant/providers"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "calendar-assistant",
		Usage: "Manage a calendar with natural language requests",
		Commands: []*cli.Command{
			serveCommand(),
			authCommand(),
			parseCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, l.Logger, error) {
	var config config.Config
	cfg, err := config.Load(envconfig.OsLookuper())
	if err != nil {
		return cfg, nil, fmt.Errorf("config load error: %w", err)
	}

	logger, err := l.NewLogger(cfg.Environment)
	if err != nil {
		return cfg, nil, fmt.Errorf("logger init error: %w", err)
	}
	return cfg, logger, nil
}

// newResolver wires the completion extractor in front of the keyword
// fallback. Without a usable completion backend only the fallback runs.
func newResolver(cfg config.Config, telemetry otel.OpenTelemetry, logger l.Logger, base http.RoundTripper, fallbackOnly bool) (*nlu.Resolver, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}

	var primary nlu.PrimaryExtractor
	if !fallbackOnly {
		provider, err := providers.NewProvider(cfg.Completion, telemetry, logger, base)
		if err != nil {
			logger.Warn("completion provider unavailable, using keyword parsing only", "error", err.Error())
		} else {
			primary = nlu.NewExtractor(provider, loc, logger)
		}
	}

	return nlu.NewResolver(primary, nlu.NewFallback(cfg.Assistant.FallbackConfidence, loc), time.Now, logger), nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(c.Context, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger l.Logger) error {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return err
	}

	// Initialize logger middleware
	loggerMiddleware, err := middlewares.NewLoggerMiddleware(logger)
	if err != nil {
		logger.Error("failed to initialize logger middleware", err)
		return err
	}

	// Initialize telemetry
	var telemetry otel.OpenTelemetry = otel.NewNoopTelemetry()
	var otelImpl *otel.OpenTelemetryImpl
	if cfg.EnableTelemetry {
		otelImpl = &otel.OpenTelemetryImpl{}
		if err := otelImpl.Init(cfg); err != nil {
			logger.Error("opentelemetry init error", err)
			return err
		}
		telemetry = otelImpl
	}
	telemetryMiddleware, err := middlewares.NewTelemetryMiddleware(cfg, telemetry, logger)
	if err != nil {
		logger.Error("failed to initialize telemetry middleware", err)
		return err
	}

	// Initialize OIDC authenticator middleware
	oidcAuthenticator, err := middlewares.NewOIDCAuthenticatorMiddleware(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize oidc authenticator", err)
		return err
	}

	rateLimiter := middlewares.NewRateLimiterMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst, logger)

	base := transport.New(cfg.Environment, logger)

	var service calendar.Service
	if cfg.Calendar.DemoMode {
		memory := calendar.NewMemoryService(loc, time.Now, logger)
		memory.Seed(calendar.DemoEvents(time.Now(), loc)...)
		service = memory
		logger.Info("demo mode enabled, using the in-memory calendar")
	} else {
		google, err := calendar.NewGoogleService(ctx, cfg.Calendar, logger, base)
		if err != nil {
			logger.Error("failed to initialize google calendar", err)
			return err
		}
		service = google
	}

	resolver, err := newResolver(cfg, telemetry, logger, base, false)
	if err != nil {
		return err
	}
	eventMatcher := matcher.NewEventMatcher(cfg.Matcher, resolver, loc, time.Now, logger)
	calendarAssistant, err := assistant.NewAssistant(cfg, resolver, eventMatcher, service, telemetry, time.Now, logger)
	if err != nil {
		logger.Error("failed to initialize assistant", err)
		return err
	}

	router, err := api.NewRouter(cfg, logger, service, calendarAssistant, resolver, time.Now)
	if err != nil {
		return err
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(loggerMiddleware.Middleware())
	if cfg.EnableTelemetry {
		r.Use(telemetryMiddleware.Middleware())
		r.GET("/metrics", gin.WrapH(otelImpl.Handler()))
	}
	r.Use(oidcAuthenticator.Middleware())

	r.GET("/health", router.HealthcheckHandler)
	r.GET("/calendar/ids", router.ListCalendarsHandler)
	r.GET("/listevents", router.ListEventsHandler)
	r.GET("/events/:id", router.GetEventHandler)
	r.POST("/create-event", router.CreateEventHandler)
	r.POST("/delete-event", router.DeleteEventHandler)

	ai := r.Group("/ai", rateLimiter.Middleware())
	ai.POST("/calendar", router.AssistantHandler)
	ai.POST("/parse", router.ParseHandler)

	r.NoRoute(router.NotFoundHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Server.TLSCertPath != "" && cfg.Server.TLSKeyPath != "" {
		go func() {
			logger.Info("starting calendar assistant with tls", "port", cfg.Server.Port)

			if err := server.ListenAndServeTLS(cfg.Server.TLSCertPath, cfg.Server.TLSKeyPath); err != nil && err != http.ErrServerClosed {
				logger.Error("listen and serve tls error", err)
			}
		}()
	} else {
		go func() {
			logger.Info("starting calendar assistant", "port", cfg.Server.Port)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("listen and serve error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown error", err)
	} else {
		logger.Info("server gracefully stopped")
	}
	if otelImpl != nil {
		if err := otelImpl.Shutdown(ctxShutdown); err != nil {
			logger.Error("telemetry shutdown error", err)
		}
	}
	return nil
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize access to a Google account and store the token",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			oauthConfig, err := calendar.OAuthConfig(cfg.Calendar.CredentialsPath)
			if err != nil {
				return err
			}

			fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", calendar.AuthCodeURL(oauthConfig, "state-token"))
			fmt.Print("Enter Authorization Code: ")
			code, _ := bufio.NewReader(os.Stdin).ReadString('\n')

			token, err := calendar.ExchangeCode(c.Context, oauthConfig, strings.TrimSpace(code))
			if err != nil {
				return err
			}
			if err := calendar.SaveToken(cfg.Calendar.TokenPath, token); err != nil {
				return err
			}

			logger.Info("token saved", "path", cfg.Calendar.TokenPath)
			return nil
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Print the intent resolved for a request without acting on it",
		ArgsUsage: "<request>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fallback-only", Usage: "Skip the completion backend and use keyword parsing"},
		},
		Action: func(c *cli.Context) error {
			utterance := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(utterance) == "" {
				return cli.Exit("a request is required", 1)
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			resolver, err := newResolver(cfg, nil, logger, transport.New(cfg.Environment, logger), c.Bool("fallback-only"))
			if err != nil {
				return err
			}

			intent := resolver.Resolve(c.Context, utterance)
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(intent)
		},
	}
}
