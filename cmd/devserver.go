package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/devserver"
	"github.com/abhisek/quizly/internal/logger"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory backend for local development",
	Long: "Serves the quiz backend API from memory. Questions are built from the\n" +
		"submitted text and PDFs are never parsed. Point the client at it with\n" +
		"--api-url http://<addr>/api.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("addr") {
			cfg.DevServer.Addr, _ = f.GetString("addr")
		}
		if f.Changed("free-quota") {
			cfg.DevServer.FreeQuota, _ = f.GetInt("free-quota")
		}

		log, err := logger.New(cfg.Env, cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return devserver.Serve(ctx, cfg.DevServer.Addr, devserver.Options{
			FreeQuota:   cfg.DevServer.FreeQuota,
			ReleaseMode: cfg.DevServer.ReleaseMode,
			Logger:      log,
		}, func(addr net.Addr) {
			fmt.Printf("Serving on http://%s/api (free quota %d)\n", addr, cfg.DevServer.FreeQuota)
		})
	},
}

func init() {
	devserverCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8787)")
	devserverCmd.Flags().Int("free-quota", 0, "Free generations per user (default from config, 10)")
}
