package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/prizedraw/internal/app"
	"github.com/abrezinsky/prizedraw/internal/auth"
	"github.com/abrezinsky/prizedraw/internal/config"
	"github.com/abrezinsky/prizedraw/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// showBanner prints the startup logo
func showBanner() {
	logo := []string{
		` ____       _          ____                     `,
		`|  _ \ _ __(_)_______ |  _ \ _ __ __ ___      __`,
		`| |_) | '__| |_  / _ \| | | | '__/ _' \ \ /\ / /`,
		`|  __/| |  | |/ /  __/| |_| | | | (_| |\ V  V / `,
		`|_|   |_|  |_/___\___||____/|_|  \__,_| \_/\_/  `,
	}
	width := 52
	border := strings.Repeat("═", width)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s  %-*s%s║%s\n", cyan, yellow, width-2, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

func main() {
	configFile := flag.String("config", "", "Config file (default ./prizedraw.yaml if present)")
	envFile := flag.String("env", ".env", "Environment file loaded before the config")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("logformat", "", "Log format (text, json)")
	seedFile := flag.String("seed", "", "Seed fixture applied to an empty database")
	noSeed := flag.Bool("noseed", false, "Do not seed an empty database")
	noBanner := flag.Bool("nobanner", false, "Skip the startup logo")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `PrizeDraw - Weighted Prize Draw Server

Usage:
  prizedraw [options]

Options:
  -config str    Config file (default ./prizedraw.yaml if present)
  -env str       Environment file loaded first (default ".env")
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "prizedraw.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -logformat str Log format: text, json (default "text")
  -seed str      Seed fixture for an empty database (default: built-in)
  -noseed        Do not seed an empty database
  -nobanner      Skip the startup logo
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Every option can also be set in the config file or as a PRIZEDRAW_*
environment variable, e.g. PRIZEDRAW_SERVER_PORT=9000.
Command-line flags take precedence.

Keyboard Shortcuts (when enabled):
  s              Print lottery status
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  prizedraw                          # Run on port 8080 with prizedraw.db
  prizedraw -port 9000               # Run on port 9000
  prizedraw -db /data/gala.db        # Use custom database path
  prizedraw -config gala.yaml        # Load settings from a file
  prizedraw -adminpw secret123       # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("prizedraw %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Explicit flags override file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "db":
			cfg.Database.Path = *dbPath
		case "adminpw":
			cfg.Auth.AdminPassword = *adminPw
		case "loglevel":
			cfg.Log.Level = *logLevel
		case "logformat":
			cfg.Log.Format = *logFormat
		case "seed":
			cfg.Seed.File = *seedFile
		case "noseed":
			cfg.Seed.Disabled = *noSeed
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if !*noBanner {
		showBanner()
	}

	appLog := logger.NewWithOptions(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)
	if cfg.Log.HTTP {
		appLog.EnableHTTPLogging()
	}

	// Setup admin authentication
	password := cfg.Auth.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth, err := auth.New(password, []byte(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL)
	if err != nil {
		log.Fatal("Failed to initialize auth: ", err)
	}

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	if cfg.Auth.AdminPassword == "" {
		appLog.Info("Admin password", "password", password)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(ctx, &shortcuts{log: appLog, lottery: a.Lottery(), quit: stop})
	}

	if err := a.Run(ctx, cfg.Addr()); err != nil {
		appLog.Error("Server error", "error", err)
		a.Close()
		os.Exit(1)
	}
}
