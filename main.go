package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	appConfig "moodmix/config"
	"moodmix/controller"
	"moodmix/gemini"
	"moodmix/handlers"
	"moodmix/logging"
	"moodmix/mood"
	"moodmix/playlist"
	"moodmix/sentry"
	"moodmix/spotify"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error loading .env file: %v", err)
	}

	app := cli.NewApp()
	app.Name = "moodmix"
	app.Usage = "Turn a description of how you feel into a playlist."
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Usage:   "port to run the web server on",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "trace, debug, info, warn or error",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "also write logs to this rotating file",
			EnvVars: []string{"LOG_FILE"},
		},
	}
	app.Action = func(cliCtx *cli.Context) error {
		cfg := appConfig.NewConfig()
		if cliCtx.IsSet("port") {
			cfg.Options.Port = cliCtx.String("port")
		}
		if cliCtx.IsSet("log-level") {
			cfg.Logging.Level = cliCtx.String("log-level")
		}
		if cliCtx.IsSet("log-file") {
			cfg.Logging.File = cliCtx.String("log-file")
		}
		return run(cliCtx.Context, cfg)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *appConfig.ConfigStruct) error {
	closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := sentry.Init(cfg.Sentry); err != nil {
		log.Warnf("Sentry initialization failed: %v", err)
	}
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var generator mood.Generator
	if cfg.Gemini.IsEnabled() {
		client, err := gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			return err
		}
		generator = client
		log.Infof("Mood inference using Gemini model %s", cfg.Gemini.Model)
	} else {
		log.Info("Gemini disabled, mood inference uses keyword heuristics")
	}

	var searcher playlist.TrackSearcher
	if cfg.Spotify.IsEnabled() {
		searcher = spotify.NewClient(cfg.Spotify)
		log.Infof("Catalog search using Spotify market %s", cfg.Spotify.Market)
	} else {
		log.Info("Spotify disabled, playlists use fallback tracks")
	}

	idleTimeout := time.Duration(cfg.Options.SessionIdleMinutes) * time.Minute
	controller := controller.NewController(
		mood.NewAnalyzer(generator),
		playlist.NewBuilder(searcher, cfg.Spotify.PlaylistLimit),
		idleTimeout,
	)
	controller.StartJanitor(ctx, time.Minute)

	if cfg.Logging.Level != "debug" && cfg.Logging.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handlers.NewRouter(handlers.NewManager(controller))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on :%s", cfg.Options.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		log.Errorf("Server failed: %v", err)
		sentry.ReportError(err)
		return err
	case <-ctx.Done():
	}

	log.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
