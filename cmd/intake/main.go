package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/config"
	"github.com/spec-kit/support-intake/internal/intake"
	"github.com/spec-kit/support-intake/internal/observability"
	"github.com/spec-kit/support-intake/internal/proxydetect"
	"github.com/spec-kit/support-intake/internal/tui"
)

func main() {
	var (
		server     = flag.String("server", "http://localhost:8080", "intake API base URL")
		launchURL  = flag.String("url", "", "launch URL carrying computer= and user= query parameters")
		screenshot = flag.String("screenshot", "", "image file attached to the ticket")
		rulesPath  = flag.String("rules", os.Getenv("PROXY_RULES_FILE"), "YAML file with proxy detection phrases")
		logPath    = flag.String("log", "intake.log", "log file")
		logLevel   = flag.String("log-level", "info", "log level")
		noAI       = flag.Bool("no-ai", false, "start with AI review disabled")
	)
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggerConfig{Level: *logLevel, Output: *logPath})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	launch, err := intake.ParseLaunchURL(*launchURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var encoded string
	if *screenshot != "" {
		raw, err := os.ReadFile(*screenshot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read screenshot: %v\n", err)
			os.Exit(2)
		}
		encoded = base64.StdEncoding.EncodeToString(raw)
	}

	rules := proxydetect.DefaultRules()
	if *rulesPath != "" {
		rules, err = proxydetect.LoadRules(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load proxy rules: %v\n", err)
			os.Exit(2)
		}
	}

	client := intake.NewClient(*server, nil, logger)

	var submissionID string
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	session, err := client.StartSession(ctx)
	cancel()
	if err != nil {
		logger.Warn("intake session unavailable", zap.Error(err))
	} else {
		submissionID = session.SessionID
	}

	ctrl := intake.New(client, intake.Options{
		Detector:     proxydetect.NewKeywordDetector(rules),
		Logger:       logger,
		SubmissionID: submissionID,
		AIReview:     !*noAI,
		Launch:       launch,
	})

	if _, err := tea.NewProgram(tui.NewApp(ctrl, encoded, logger), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "intake: %v\n", err)
		os.Exit(1)
	}
}
