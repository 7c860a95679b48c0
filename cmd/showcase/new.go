package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/lemmi/showcase"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type newOptions struct {
	title       string
	description string
	tags        []string
	slug        string
	hidden      bool
	simulate    bool
	edit        bool
}

var newOpts newOptions

type newFrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags,flow"`
	Hidden      bool     `yaml:"hidden,omitempty"`
}

const newBody = `
## Overview

<Callout type="info" title="Draft">
Replace this with a short summary of the project.
</Callout>

## Challenge

## Solution

## Results
`

// newEntry builds the file name and content of a fresh entry.
func newEntry(o newOptions, now time.Time) (string, []byte, error) {
	id := o.slug
	if id == "" {
		var err error
		id, err = slug.Normalize(o.title)
		if err != nil {
			return "", nil, errors.Wrapf(err, "Cannot make a slug of %q", o.title)
		}
	}
	if id == "" {
		return "", nil, errors.New("empty identifier, set --slug")
	}

	meta := newFrontMatter{
		Title:       o.title,
		Description: o.description,
		Date:        now.Format("2006-01-02"),
		Tags:        o.tags,
		Hidden:      o.hidden,
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	b, err := yaml.Marshal(meta)
	if err != nil {
		return "", nil, err
	}

	buf := bytes.Buffer{}
	buf.WriteString("---\n")
	buf.Write(b)
	buf.WriteString("---\n")
	buf.WriteString(newBody)
	return id + showcase.ContentExt, buf.Bytes(), nil
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new project entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newOpts.title == "" && len(args) > 0 {
			newOpts.title = strings.Join(args, " ")
		}
		name, content, err := newEntry(newOpts, time.Now())
		if err != nil {
			return err
		}
		fpath := filepath.Join(appConfig.Prefix, filepath.FromSlash(appConfig.ContentDir), name)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, fpath)
		if newOpts.simulate {
			_, err := out.Write(content)
			return err
		}

		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return err
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		if newOpts.edit {
			return openEditor(fpath)
		}
		return nil
	},
}

func openEditor(fpath string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	editorPath, err := exec.LookPath(editor)
	if err != nil {
		return err
	}
	c := exec.Command(editorPath, fpath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newOpts.title, "title", "", "Set the title")
	f.StringVar(&newOpts.description, "description", "", "Set the description")
	f.StringSliceVar(&newOpts.tags, "tags", nil, "Set the tags, comma separated")
	f.StringVar(&newOpts.slug, "slug", "", "Set the identifier, derived from the title by default")
	f.BoolVar(&newOpts.hidden, "hidden", false, "Hide the entry from listings")
	f.BoolVarP(&newOpts.simulate, "dry-run", "n", false, "Only show the result")
	f.BoolVarP(&newOpts.edit, "edit", "e", false, "Open $EDITOR on the new file")
	rootCmd.AddCommand(newCmd)
}
