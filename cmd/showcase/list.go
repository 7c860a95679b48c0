package main

import (
	"fmt"

	"github.com/lemmi/showcase"
	"github.com/spf13/cobra"
)

var recent int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the visible entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openBackend()
		if err != nil {
			return err
		}
		repo := showcase.NewRepository(fs,
			showcase.WithContentDir(appConfig.ContentDir),
			showcase.WithLogger(logs.Logger("showcase.reader")),
		)

		site := showcase.Site{Title: appConfig.SiteTitle}
		var page showcase.ProjectsPage
		if recent > 0 {
			home, err := repo.HomePage(site, recent)
			if err != nil {
				return err
			}
			page = showcase.ProjectsPage{Site: site, Projects: home.Recent}
		} else if page, err = repo.ProjectsPage(site); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), page.Outline())
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&recent, "recent", 0, "only the n most recent entries")
	rootCmd.AddCommand(listCmd)
}
