package showcase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Site holds the values every page template needs besides its content.
type Site struct {
	Title      string
	BaseURL    string
	BookingURL string
}

// HomePage lists the most recent entries.
type HomePage struct {
	Site
	Recent  Entries
	ModTime time.Time
}

// ProjectsPage lists every visible entry.
type ProjectsPage struct {
	Site
	Projects Entries
	ModTime  time.Time
}

// ProjectPage is one rendered entry.
type ProjectPage struct {
	Site
	Project Summary
	Content template.HTML
	ModTime time.Time
}

func latest(e Entries) time.Time {
	var t time.Time
	for _, s := range e {
		if s.ModTime.After(t) {
			t = s.ModTime
		}
	}
	return t
}

// HomePage builds the landing page with the n newest entries.
func (r *Repository) HomePage(site Site, n int) (HomePage, error) {
	recent, err := r.Recent(n)
	if err != nil {
		return HomePage{}, err
	}
	return HomePage{Site: site, Recent: recent, ModTime: latest(recent)}, nil
}

func (r *Repository) ProjectsPage(site Site) (ProjectsPage, error) {
	all, err := r.Entries()
	if err != nil {
		return ProjectsPage{}, err
	}
	return ProjectsPage{Site: site, Projects: all, ModTime: latest(all)}, nil
}

// ProjectPage loads and renders the entry id with reg. Hidden entries are
// served like any other.
func (r *Repository) ProjectPage(ctx context.Context, site Site, id string, reg Registry) (ProjectPage, error) {
	e, err := r.Entry(id)
	if err != nil {
		return ProjectPage{}, err
	}
	html, err := e.HTML(ctx, reg)
	if err != nil {
		return ProjectPage{}, err
	}
	return ProjectPage{
		Site:    site,
		Project: e.Summary,
		Content: html,
		ModTime: e.ModTime,
	}, nil
}

// Outline lists the projects as text, for the terminal.
func (p ProjectsPage) Outline() string {
	buf := bytes.Buffer{}
	for _, s := range p.Projects {
		date := "undated"
		if s.HasDate() {
			date = s.Date.Format("2006-01-02")
		}
		fmt.Fprintf(&buf, "%-10s  %-24s  %q", date, s.ID, s.Title())
		if len(s.Meta.Tags) > 0 {
			fmt.Fprintf(&buf, "  [%s]", strings.Join(s.Meta.Tags, ", "))
		}
		fmt.Fprintf(&buf, "  %s\n", s.ReadingTime)
	}
	return buf.String()
}
