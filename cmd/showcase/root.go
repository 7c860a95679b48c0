package main

import (
	"fmt"
	"os"

	"github.com/lemmi/showcase"
	"github.com/lemmi/showcase/backend"
	"github.com/lemmi/showcase/internal/config"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/lemmi/showcase/internal/site"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	logs      *logging.Provider
)

var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Portfolio site from a directory of .mdx case studies",
	Long: `showcase reads project case studies written in Markdown with component
embeds from content/projects and serves them, or exports them as static HTML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./showcase.yaml)")
	pf.String("prefix", ".", "path to the site root")
	pf.String("content-dir", showcase.DefaultContentDir, "content directory below the site root")
	pf.Bool("git", false, "prefix is a git repo, read the branch head")
	pf.String("branch", "master", "branch to read with --git")
	pf.Bool("debug", false, "set debug output")
	pf.String("log-level", "info", "trace, debug, info, warn or error")
	pf.String("log-format", "console", "json or console")
}

var flagKeys = map[string]string{
	"prefix":      "prefix",
	"content-dir": "contentDir",
	"git":         "git",
	"branch":      "branch",
	"debug":       "debug",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"bind":        "bind",
	"net":         "net",
	"out":         "outputDir",
	"base-url":    "baseURL",
}

func initializeConfig(cmd *cobra.Command) error {
	if err := config.LoadEnvFiles(config.EnvFiles...); err != nil {
		return err
	}
	v, err := config.New()
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if c.Debug && c.Log.Level == "info" {
		c.Log.Level = "debug"
	}
	appConfig = c

	logs, err = logging.NewProvider(c.Log)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logs.Logger("showcase").Debug("using config file", "path", used)
	}
	return nil
}

func openBackend() (backend.Backend, error) {
	return backend.Open(appConfig.Prefix, appConfig.Git, appConfig.Branch)
}

func siteOptions() site.Options {
	return site.Options{
		Site: showcase.Site{
			Title:      appConfig.SiteTitle,
			BaseURL:    appConfig.BaseURL,
			BookingURL: appConfig.BookingURL,
		},
		ContentDir:  appConfig.ContentDir,
		Recent:      appConfig.Recent,
		Debug:       appConfig.Debug,
		CORSOrigins: appConfig.CORSOrigins,
		Registry:    showcase.DefaultRegistry(),
		Logger:      logs.Logger("showcase.site"),
	}
}
