package main

import (
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2024, 9, 3, 10, 0, 0, 0, time.UTC)
	name, content, err := newEntry(newOptions{
		title: "Invoice Automation Pipeline",
		tags:  []string{"automation", "go"},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if name != "invoice-automation-pipeline.mdx" {
		t.Errorf("name = %q", name)
	}

	var meta struct {
		Title string   `yaml:"title"`
		Date  string   `yaml:"date"`
		Tags  []string `yaml:"tags"`
	}
	body, err := frontmatter.Parse(strings.NewReader(string(content)), &meta)
	if err != nil {
		t.Fatalf("generated front matter does not parse: %v\n%s", err, content)
	}
	if meta.Title != "Invoice Automation Pipeline" || meta.Date != "2024-09-03" || len(meta.Tags) != 2 {
		t.Errorf("meta = %+v", meta)
	}
	if !strings.Contains(string(body), "<Callout") {
		t.Errorf("body = %q", body)
	}
}

func TestNewEntrySlug(t *testing.T) {
	name, _, err := newEntry(newOptions{title: "Whatever", slug: "custom-id"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if name != "custom-id.mdx" {
		t.Errorf("name = %q", name)
	}

	if _, _, err := newEntry(newOptions{}, time.Now()); err == nil {
		t.Error("newEntry accepted an empty title and slug")
	}
}
