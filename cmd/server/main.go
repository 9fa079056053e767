package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/podkidnoy/durak-server/internal/config"
	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/monitor"
	"github.com/podkidnoy/durak-server/internal/network/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	logger.Init(*debug)
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Warnf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	mon := monitor.NewMonitor("durak")
	if cfg.Metrics.Enabled {
		mon.StartServer(cfg.Metrics.Addr)
		logger.Log.Infof("📈 metrics on %s/metrics", cfg.Metrics.Addr)
	}

	srv, err := server.NewServer(cfg, mon)
	if err != nil {
		logger.Log.Fatalf("server setup failed: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Log.Info("shutting down...")
		srv.Shutdown()
		os.Exit(0)
	}()

	logger.Log.Info("🎮 durak server starting...")
	if err := srv.Start(); err != nil {
		logger.Log.Fatalf("server failed: %v", err)
	}
}
