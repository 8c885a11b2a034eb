package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"filematch/internal/config"
	"filematch/internal/discovery"
	"filematch/internal/gateway"
	"filematch/internal/logger"
	"filematch/internal/matchmaker"
	"filematch/internal/stats"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matchmaking tracker",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			cfg = loaded
		}

		log := logger.New(cfg.LogLevel)

		db, err := stats.NewDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open stats db: %v", err)
		}
		store := stats.NewStore(db)

		m := matchmaker.New(matchmaker.Config{
			PairTimeout: time.Duration(cfg.PairTimeoutMS) * time.Millisecond,
			Logger:      log,
			Recorder:    store,
		})
		gw := gateway.New(m, log, store)

		if cfg.MDNS.Enabled {
			port, err := cfg.Port()
			if err != nil {
				log.Fatalf("cannot advertise on mDNS: %v", err)
			}
			broadcaster, err := discovery.StartBroadcaster(discovery.Config{
				Instance: cfg.MDNS.Instance,
				Port:     port,
			})
			if err != nil {
				log.Warnf("mDNS advertisement failed: %v", err)
			} else {
				defer broadcaster.Stop()
				log.Infof("advertising %s on mDNS", cfg.MDNS.Instance)
			}
		}

		srv := &http.Server{Addr: cfg.Addr, Handler: gw.Routes()}
		go func() {
			log.Infof("tracker listening on %s", cfg.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("server error: %v", err)
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan

		log.Info("shutting down tracker")
		_ = srv.Close()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
}
