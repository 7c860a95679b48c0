package showcase

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func defaultRenderers() map[string]RenderFunc {
	return map[string]RenderFunc{
		TagH1:         styled(TagH1, "mt-8 mb-4 text-4xl font-bold tracking-tight", "id"),
		TagH2:         styled(TagH2, "mt-8 mb-3 text-3xl font-semibold tracking-tight", "id"),
		TagH3:         styled(TagH3, "mt-6 mb-2 text-2xl font-semibold", "id"),
		TagH4:         styled(TagH4, "mt-4 mb-2 text-xl font-semibold", "id"),
		TagParagraph:  styled(TagParagraph, "mb-4 leading-7 text-muted-foreground"),
		TagLink:       renderLink,
		TagImage:      renderImage,
		TagBlockquote: styled(TagBlockquote, "mt-4 mb-4 border-l-4 border-primary pl-4 italic text-muted-foreground"),
		TagCode:       styled(TagCode, "relative rounded bg-muted px-[0.3rem] py-[0.2rem] font-mono text-sm"),
		TagPre:        styled(TagPre, "mb-4 mt-4 overflow-x-auto rounded-lg bg-muted p-4"),
		TagUL:         styled(TagUL, "my-4 ml-6 list-disc [&>li]:mt-2"),
		TagOL:         styled(TagOL, "my-4 ml-6 list-decimal [&>li]:mt-2", "start"),
		TagLI:         styled(TagLI, "text-muted-foreground leading-7"),
		TagTable:      renderTable,
		TagTHead:      styled(TagTHead, "bg-muted/50 transition-colors uppercase text-xs font-bold tracking-wider text-muted-foreground border-b border-border"),
		TagTR:         styled(TagTR, "border-b border-border last:border-0 transition-colors hover:bg-muted/20"),
		TagTH:         styled(TagTH, "px-4 py-4 text-left font-semibold text-foreground [&[align=center]]:text-center [&[align=right]]:text-right", "align"),
		TagTD:         styled(TagTD, "px-4 py-4 text-left text-muted-foreground [&[align=center]]:text-center [&[align=right]]:text-right", "align"),
		TagHR:         renderHR,
		TagStrong:     styled(TagStrong, "font-semibold text-foreground"),
		TagEm:         styled(TagEm, "italic"),

		TagCaptionedImage: renderCaptionedImage,
		TagCallout:        renderCallout,
		TagVideo:          renderVideo,
		TagYouTubeVideo:   renderYouTubeVideo,
	}
}

// styled wraps the children in tag with a fixed class. Only the attributes
// named in keep are carried over.
func styled(tag, class string, keep ...string) RenderFunc {
	return func(el Element) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			h := &htmlWriter{w: w}
			h.open(tag, class, pick(el.Attrs, keep...))
			h.component(ctx, el.Children)
			h.close(tag)
			return h.err
		})
	}
}

func pick(a Attributes, keys ...string) Attributes {
	out := Attributes{}
	for _, k := range keys {
		if v := a.Get(k); v != "" {
			out[k] = v
		}
	}
	return out
}

func renderLink(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		href := el.Attrs.Get("href")
		if href == "" {
			href = "#"
		}
		h := &htmlWriter{w: w}
		h.raw("<a")
		h.url("href", href)
		if title := el.Attrs.Get("title"); title != "" {
			h.attr("title", title)
		}
		h.attr("class", "text-primary underline underline-offset-4 hover:text-primary/80 transition-colors")
		h.raw(">")
		h.component(ctx, el.Children)
		h.close("a")
		return h.err
	})
}

// renderImage fills a missing title from alt and the other way round, so
// screen readers and tooltips both get text.
func renderImage(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		alt, title := el.Attrs.Get("alt"), el.Attrs.Get("title")
		if title == "" {
			title = alt
		}
		if alt == "" {
			alt = title
		}
		h := &htmlWriter{w: w}
		h.raw("<img")
		h.url("src", el.Attrs.Get("src"))
		h.attr("alt", alt)
		if title != "" {
			h.attr("title", title)
		}
		h.raw(` width="1200" height="630" sizes="100vw" class="rounded-lg my-6 w-full h-auto">`)
		return h.err
	})
}

func renderTable(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="my-6 w-full overflow-y-auto rounded-lg border border-border">`)
		h.raw(`<table class="w-full border-collapse text-sm">`)
		h.component(ctx, el.Children)
		h.raw(`</table></div>`)
		return h.err
	})
}

func renderHR(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<hr class="my-8 border-border">`)
		return err
	})
}
