package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lemmi/compress"
	"github.com/lemmi/showcase/internal/site"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site, reading content on every request",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logs.Logger("showcase.serve")

		ln, err := net.Listen(appConfig.Net, appConfig.Bind)
		if err != nil {
			return errors.Wrapf(err, "Cannot listen on %s %q", appConfig.Net, appConfig.Bind)
		}
		defer ln.Close()
		if strings.HasPrefix(appConfig.Net, "unix") {
			if err := os.Chmod(appConfig.Bind, 0666); err != nil {
				return errors.Wrapf(err, "Cannot chmod socket %q", appConfig.Bind)
			}
		}

		log.Info("starting", "addr", appConfig.Bind, "net", appConfig.Net)
		log.Debug("settings", "prefix", appConfig.Prefix, "git", appConfig.Git, "branch", appConfig.Branch, "contentDir", appConfig.ContentDir)

		srv := &http.Server{
			Handler:     compress.New(site.NewHandler(openBackend, siteOptions())),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Error("shutdown failed", "error", err.Error())
			}
		}()

		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		log.Info("stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("bind", "localhost:8080", "address or path to bind to")
	serveCmd.Flags().String("net", "tcp", `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`)
	rootCmd.AddCommand(serveCmd)
}
