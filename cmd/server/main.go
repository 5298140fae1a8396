package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/HanasakaAlice/tefuda-oogiri/internal/cards"
	"github.com/HanasakaAlice/tefuda-oogiri/internal/config"
	"github.com/HanasakaAlice/tefuda-oogiri/internal/game"
	"github.com/HanasakaAlice/tefuda-oogiri/internal/ws"
	staticserver "github.com/HanasakaAlice/tefuda-oogiri/static"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Tefuda Oogiri - answer-card party game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 3000 or PORT env var)

Environment Variables:
  PORT              Port to listen on (default: 3000)
  LOG_LEVEL         debug, info, warn or error (default: info)
  CARDS_FILE        YAML file with "prompts" and "answers" lists (default: bundled cards)
  GAME_OVER_DELAY   Pause after the final round's results (default: 8s)
  EXPORT_ENABLED    Append round results to a file (default: false)
  EXPORT_FILE       Path for exported results (default: ./tefuda-results.txt)
  CORS_ORIGIN       Allowed origin for socket.io preflight (default: *)

Visit http://localhost:3000 after starting the server.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Tefuda Oogiri %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid LOG_LEVEL")
	}
	zerolog.SetGlobalLevel(level)

	pools, err := cards.Load(cfg.CardsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load cards")
	}
	log.Info().Int("prompts", len(pools.Prompts)).Int("answers", len(pools.Answers)).Msg("card pools loaded")

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server doubles as the session's notifier
	sock := ws.New(cfg)
	sess := game.NewSession(pools, sock)
	sess.SetGameOverDelay(cfg.GameOverDelay)
	if cfg.ExportEnabled {
		sess.SetExportFile(cfg.ExportFile)
	}
	sock.SetSession(sess)
	io := sock.Mount(r)
	defer io.Close()

	r.GET("/api/lobby", func(c *gin.Context) {
		c.JSON(http.StatusOK, sess.Lobby())
	})

	// Serve the client bundle for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
