package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/cmd/haloqa/server"
)

var serveAddr string

// serveCmd runs the demo server until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo contact page",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5000", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	srvCfg := server.DefaultConfig()
	srvCfg.Addr = serveAddr
	srv, err := server.NewServer(srvCfg, logger)
	if err != nil {
		return err
	}
	addr, err := srv.Start()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving contact page on http://%s\n", addr)

	<-cmd.Context().Done()
	logger.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
