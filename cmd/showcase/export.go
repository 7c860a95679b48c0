package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lemmi/showcase/internal/site"
	"github.com/spf13/cobra"
)

var watch bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the site as static files",
	Long: `export renders every page, the sitemap and the JSON listing into the
output directory and copies the static directory along. With --watch it keeps
running and exports again whenever content, templates or static files change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logs.Logger("showcase.export")

		fs, err := openBackend()
		if err != nil {
			return err
		}
		ex := site.NewExporter(fs, appConfig.OutputDir, siteOptions())

		if !watch {
			n, err := ex.Export(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("export done", "files", n, "out", appConfig.OutputDir)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		dirs := []string{
			filepath.Join(appConfig.Prefix, filepath.FromSlash(appConfig.ContentDir)),
			filepath.Join(appConfig.Prefix, site.TemplateDir),
			filepath.Join(appConfig.Prefix, site.StaticDir),
		}
		log.Info("watching for changes", "dirs", dirs)
		return ex.Watch(ctx, 500*time.Millisecond, dirs...)
	},
}

func init() {
	exportCmd.Flags().String("out", "out", "output directory")
	exportCmd.Flags().String("base-url", "http://localhost:8080", "absolute URL the site is published under")
	exportCmd.Flags().BoolVarP(&watch, "watch", "w", false, "export again on changes")
	rootCmd.AddCommand(exportCmd)
}
