package site

import (
	"context"

	"github.com/lemmi/showcase"
)

type apiSummary struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Date        string                 `json:"date,omitempty"`
	Tags        []string               `json:"tags"`
	Thumbnail   string                 `json:"thumbnail,omitempty"`
	ReadingTime string                 `json:"readingTime"`
	Link        string                 `json:"link"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

type apiEntry struct {
	apiSummary
	Hidden bool   `json:"hidden,omitempty"`
	HTML   string `json:"html"`
}

func toAPISummary(s showcase.Summary) apiSummary {
	tags := s.Meta.Tags
	if tags == nil {
		tags = []string{}
	}
	return apiSummary{
		ID:          s.ID,
		Title:       s.Title(),
		Description: s.Meta.Description,
		Date:        s.Meta.Date,
		Tags:        tags,
		Thumbnail:   s.Meta.Thumbnail,
		ReadingTime: s.ReadingTime,
		Link:        s.Link(),
		Extra:       s.Meta.Extra,
	}
}

// APIProjects lists the visible entries as JSON.
func (p *Pages) APIProjects() (Document, error) {
	page, err := p.repo.ProjectsPage(p.opts.Site)
	if err != nil {
		return Document{}, err
	}
	list := make([]apiSummary, 0, len(page.Projects))
	for _, s := range page.Projects {
		list = append(list, toAPISummary(s))
	}
	return p.json(list, page.ModTime)
}

// APIProject is one entry with its rendered body as JSON.
func (p *Pages) APIProject(ctx context.Context, id string) (Document, error) {
	e, err := p.repo.Entry(id)
	if err != nil {
		return Document{}, err
	}
	html, err := e.HTML(ctx, p.opts.Registry)
	if err != nil {
		return Document{}, err
	}
	return p.json(apiEntry{
		apiSummary: toAPISummary(e.Summary),
		Hidden:     e.Hidden(),
		HTML:       string(html),
	}, e.ModTime)
}
