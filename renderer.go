package showcase

import (
	"bytes"
	"context"
	"io"
	"regexp"

	"github.com/a-h/templ"
	"github.com/pkg/errors"

	bm "github.com/microcosm-cc/bluemonday"
)

type ContentRenderer interface {
	Render(ctx context.Context) ([]byte, error)
}

type articleRenderer struct {
	id       string
	body     []byte
	registry Registry
	unsafe   bool
}

func (a articleRenderer) Render(ctx context.Context) ([]byte, error) {
	html, err := a.registry.Render(ctx, a.body)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot render entry: %q", a.id)
	}
	if !a.unsafe {
		html = policy.SanitizeBytes(html)
	}
	return html, nil
}

// Render renders body with the default registry plus overrides and
// sanitises the result.
func Render(ctx context.Context, body []byte, overrides map[string]RenderFunc) ([]byte, error) {
	html, err := NewRegistry(overrides).Render(ctx, body)
	if err != nil {
		return nil, err
	}
	return policy.SanitizeBytes(html), nil
}

// Render renders body to HTML without sanitising it. Every element in the
// body is looked up in r; tags r does not know go to Passthrough.
func (r Registry) Render(ctx context.Context, body []byte) ([]byte, error) {
	blocks, err := ParseBlocks(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.renderBlocks(ctx, &buf, blocks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r Registry) renderBlocks(ctx context.Context, w io.Writer, blocks []Block) error {
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.IsComponent() {
			if err := r.renderComponent(ctx, w, b); err != nil {
				return err
			}
			continue
		}
		html, err := renderMarkdown(ctx, r, b)
		if err != nil {
			return err
		}
		if _, err := w.Write(html); err != nil {
			return err
		}
	}
	return nil
}

// renderComponent renders an embed through its registry entry. Children
// render lazily, when and if the component asks for them.
func (r Registry) renderComponent(ctx context.Context, w io.Writer, b Block) error {
	children := b.Children
	el := Element{
		Tag:   b.Name,
		Attrs: b.Attrs,
		Children: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return r.renderBlocks(ctx, w, children)
		}),
	}
	if err := r.resolve(b.Name)(el).Render(ctx, w); err != nil {
		return errors.Wrapf(err, "line %d: <%s>", b.Line, b.Name)
	}
	return nil
}

var youTubeEmbed = regexp.MustCompile(`^https://www\.youtube(-nocookie)?\.com/embed/[A-Za-z0-9_-]+$`)

var policy = Policy()

// Policy is the sanitiser applied to rendered bodies: the bluemonday UGC
// policy plus what the built in components emit.
func Policy() *bm.Policy {
	p := bm.UGCPolicy()
	p.AllowAttrs("class", "aria-hidden").Globally()
	p.AllowDataAttributes()
	p.AllowElements("div", "span", "figure", "figcaption")
	p.AllowAttrs("width", "height", "sizes").OnElements("img")
	p.AllowAttrs("src").OnElements("video")
	p.AllowAttrs("title", "controls").OnElements("video")
	p.AllowAttrs("src").Matching(youTubeEmbed).OnElements("iframe")
	p.AllowAttrs("title", "allow", "allowfullscreen").OnElements("iframe")
	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|right|center)$`)).OnElements("th", "td")
	return p
}
