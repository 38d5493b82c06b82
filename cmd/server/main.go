package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"houseregions.ai/internal/audit"
	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/commands"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/define"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/housing/registry"
	"houseregions.ai/internal/housing/resize"
	"houseregions.ai/internal/regionstore"
	"houseregions.ai/internal/transport/ws"
)

func main() {
	s, err := parseSettings(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("settings: %v", err)
	}

	logger := log.New(os.Stdout, "[houses] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		logger.Fatalf("load housing config: %v", err)
	}
	dir, err := directory.Load(s.DirectoryPath)
	if err != nil {
		logger.Fatalf("load directory: %v", err)
	}
	store, err := regionstore.OpenSQLite(s.DBPath, s.WorldID)
	if err != nil {
		logger.Fatalf("open region store: %v", err)
	}
	defer store.Close()

	var rec audit.Recorder = audit.Nop{}
	if !s.DisableAudit {
		al := audit.NewLogger(s.DataDir)
		defer al.Close()
		rec = al
	}

	reg := registry.New(store, dir, cfg, logger, rec)
	hub := ws.NewHub(logger)
	previews := notify.NewPreviewer(hub, notify.Timers{})
	defines := define.NewManager(reg, hub, notify.Timers{}, logger)
	h := commands.New(commands.Deps{
		Registry: reg,
		Resize:   resize.New(reg, logger),
		Define:   defines,
		Accounts: dir,
		Out:      hub,
		Previews: previews,
		Reload: func() (config.Config, error) {
			next, err := config.Load(s.ConfigPath)
			if err != nil {
				return next, err
			}
			if err := dir.Reload(s.DirectoryPath); err != nil {
				return next, err
			}
			return next, nil
		},
		Logger: logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(hub, ws.Core{
		Directory: dir,
		Define:    defines,
		Commands:  h,
		Previews:  previews,
		Config:    reg.Config,
	}, s.WorldID, logger).Handler())

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("world=%s store=%s max_houses=%d", s.WorldID, s.DBPath, cfg.MaxHousesPerUser)
	logger.Printf("listening on %s", s.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
