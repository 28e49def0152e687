package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/HMasataka/telecall/internal/config"
	"github.com/HMasataka/telecall/internal/relay"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "server address (overrides config)")
	flag.Parse()

	conf, err := config.LoadServer(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *addr != "" {
		conf.Addr = *addr
	}

	if conf.Turn.Enabled {
		turnServer, err := relay.InitTurnServer(conf.Turn)
		if err != nil {
			slog.Error("failed to start turn server", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer turnServer.Close()

		slog.Info("turn server started", slog.String("addr", conf.Turn.Address), slog.String("realm", conf.Turn.Realm))
	}

	hub := relay.NewHub()
	s := relay.NewServer(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:    conf.Addr,
		Handler: mux,
	}

	go func() {
		slog.Info("signaling relay starting", slog.String("addr", conf.Addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down server...")
	server.Close()
}
