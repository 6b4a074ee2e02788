package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/server"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	listen := flag.String("listen", "", "listen address, overrides the configuration")
	ranked := flag.Bool("ranked", false, "use ranked matchmaking, overrides the configuration")
	logLevel := flag.String("log", "", "log level, overrides the configuration")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listen
		case "ranked":
			cfg.Ranked = *ranked
		case "log":
			cfg.LogLevel = *logLevel
		}
	})

	log, err := server.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, log, cfg)
	if err != nil {
		log.Fatal("server setup failed", zap.Error(err))
	}

	// The console stays attached: ENTER stops the server, as does a signal.
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		stop()
	}()
	log.Info("press ENTER to stop the server")

	if err := srv.Run(ctx); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
	log.Info("server stopped")
}
