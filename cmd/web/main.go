package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/discobots/discobots-web/internal/app"
	"github.com/discobots/discobots-web/internal/config"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and starts the server.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 5000, "server port")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	if errValidate := validatePort(*port); errValidate != nil {
		return errValidate
	}

	configPath := config.ResolveConfigPath(os.Getenv(config.EnvConfigPath))
	if strings.TrimSpace(*cfgPath) != "" {
		configPath = config.ResolveConfigPath(*cfgPath)
	}

	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}

	return app.RunServer(ctx, cfg, *port)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
