package showcase

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CalloutKind selects the icon and colours of a Callout.
type CalloutKind string

const (
	CalloutInfo    CalloutKind = "info"
	CalloutWarning CalloutKind = "warning"
	CalloutSuccess CalloutKind = "success"
	CalloutDanger  CalloutKind = "danger"
)

type calloutStyle struct {
	icon      string
	container string
	iconClass string
}

var calloutStyles = map[CalloutKind]calloutStyle{
	CalloutInfo:    {"information-circle", "border-blue-500/30 bg-blue-500/10", "text-blue-500"},
	CalloutWarning: {"alert-circle", "border-yellow-500/30 bg-yellow-500/10", "text-yellow-500"},
	CalloutSuccess: {"checkmark-circle-02", "border-green-500/30 bg-green-500/10", "text-green-500"},
	CalloutDanger:  {"alert-02", "border-red-500/30 bg-red-500/10", "text-red-500"},
}

// CalloutProps are the attributes a Callout understands. "type" is accepted
// as an alias of "kind".
type CalloutProps struct {
	Kind  CalloutKind
	Title string
}

func (p CalloutProps) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Kind, validation.Required,
			validation.In(CalloutInfo, CalloutWarning, CalloutSuccess, CalloutDanger)),
	)
}

// CalloutPropsOf reads a Callout's attributes. Kind defaults to info.
func CalloutPropsOf(a Attributes) (CalloutProps, error) {
	p := CalloutProps{
		Kind:  CalloutKind(strings.ToLower(a.First("kind", "type"))),
		Title: a.First("title"),
	}
	if p.Kind == "" {
		p.Kind = CalloutInfo
	}
	if err := p.Validate(); err != nil {
		return p, &AttributeError{Tag: TagCallout, Err: err}
	}
	return p, nil
}

func renderCallout(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p, err := CalloutPropsOf(el.Attrs)
		if err != nil {
			return err
		}
		style := calloutStyles[p.Kind]

		h := &htmlWriter{w: w}
		h.raw(`<div class="my-6 flex gap-4 rounded-lg border p-4 `)
		h.text(style.container)
		h.raw(`" data-callout="`)
		h.text(string(p.Kind))
		h.raw(`"><div class="flex-shrink-0 mt-0.5 `)
		h.text(style.iconClass)
		h.raw(`"><span class="callout-icon w-5 h-5" data-icon="`)
		h.text(style.icon)
		h.raw(`" aria-hidden="true"></span></div><div class="flex-1 min-w-0">`)
		if p.Title != "" {
			h.raw(`<p class="font-semibold text-foreground mb-1">`)
			h.text(p.Title)
			h.raw(`</p>`)
		}
		h.raw(`<div class="text-sm text-muted-foreground [&amp;&gt;p]:mb-0">`)
		h.component(ctx, el.Children)
		h.raw(`</div></div></div>`)
		return h.err
	})
}

// ImageProps are the attributes of the captioned Image embed.
type ImageProps struct {
	Src     string
	Alt     string
	Caption string
}

func (p ImageProps) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Src, validation.Required),
	)
}

func ImagePropsOf(a Attributes) (ImageProps, error) {
	p := ImageProps{
		Src:     a.First("src"),
		Alt:     a.Get("alt"),
		Caption: a.First("caption"),
	}
	if err := p.Validate(); err != nil {
		return p, &AttributeError{Tag: TagCaptionedImage, Err: err}
	}
	return p, nil
}

func renderCaptionedImage(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p, err := ImagePropsOf(el.Attrs)
		if err != nil {
			return err
		}
		h := &htmlWriter{w: w}
		h.raw(`<figure class="my-8"><div class="relative overflow-hidden rounded-lg border border-border"><img`)
		h.url("src", p.Src)
		h.attr("alt", p.Alt)
		h.raw(` width="1200" height="630" class="w-full h-auto object-cover"></div>`)
		writeCaption(h, p.Caption)
		h.raw(`</figure>`)
		return h.err
	})
}

// Aspect ratios a Video may declare.
const (
	Aspect16x9 = "16:9"
	Aspect4x3  = "4:3"
	Aspect1x1  = "1:1"
)

var aspectRatioClasses = map[string]string{
	Aspect16x9: "aspect-video",
	Aspect4x3:  "aspect-[4/3]",
	Aspect1x1:  "aspect-square",
}

// VideoProps are the attributes of the inline Video embed. "source" is
// accepted as an alias of "src".
type VideoProps struct {
	Src         string
	Title       string
	Caption     string
	AspectRatio string
}

func (p VideoProps) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Src, validation.Required),
		validation.Field(&p.AspectRatio, validation.Required, validation.In(Aspect16x9, Aspect4x3, Aspect1x1)),
	)
}

// VideoPropsOf reads a Video's attributes. The aspect ratio defaults to
// 16:9.
func VideoPropsOf(a Attributes) (VideoProps, error) {
	p := VideoProps{
		Src:         a.First("src", "source"),
		Title:       a.First("title"),
		Caption:     a.First("caption"),
		AspectRatio: a.First("aspectratio", "aspect-ratio"),
	}
	if p.AspectRatio == "" {
		p.AspectRatio = Aspect16x9
	}
	if err := p.Validate(); err != nil {
		return p, &AttributeError{Tag: TagVideo, Err: err}
	}
	return p, nil
}

func renderVideo(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p, err := VideoPropsOf(el.Attrs)
		if err != nil {
			return err
		}
		h := &htmlWriter{w: w}
		h.raw(`<figure class="my-8"><div class="relative overflow-hidden rounded-lg border border-border `)
		h.text(aspectRatioClasses[p.AspectRatio])
		h.raw(`"><video`)
		h.url("src", p.Src)
		if p.Title != "" {
			h.attr("title", p.Title)
		}
		h.raw(` controls class="absolute inset-0 w-full h-full object-cover">Your browser does not support the video tag.</video></div>`)
		writeCaption(h, p.Caption)
		h.raw(`</figure>`)
		return h.err
	})
}

const defaultYouTubeTitle = "YouTube video player"

var youTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// YouTubeProps are the attributes of the YouTubeVideo embed. "id" is
// accepted as an alias of "videoId".
type YouTubeProps struct {
	VideoID string
	Title   string
	Caption string
}

func (p YouTubeProps) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.VideoID, validation.Required, validation.Match(youTubeID)),
	)
}

func YouTubePropsOf(a Attributes) (YouTubeProps, error) {
	p := YouTubeProps{
		VideoID: a.First("videoid", "id"),
		Title:   a.First("title"),
		Caption: a.First("caption"),
	}
	if p.Title == "" {
		p.Title = defaultYouTubeTitle
	}
	if err := p.Validate(); err != nil {
		return p, &AttributeError{Tag: TagYouTubeVideo, Err: err}
	}
	return p, nil
}

// EmbedURL is the player address for the video.
func (p YouTubeProps) EmbedURL() string {
	return "https://www.youtube.com/embed/" + url.PathEscape(p.VideoID)
}

func renderYouTubeVideo(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p, err := YouTubePropsOf(el.Attrs)
		if err != nil {
			return err
		}
		h := &htmlWriter{w: w}
		h.raw(`<figure class="my-8"><div class="relative overflow-hidden rounded-lg border border-border aspect-video"><iframe`)
		h.url("src", p.EmbedURL())
		h.attr("title", p.Title)
		h.raw(` allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen class="absolute inset-0 w-full h-full"></iframe></div>`)
		writeCaption(h, p.Caption)
		h.raw(`</figure>`)
		return h.err
	})
}

func writeCaption(h *htmlWriter, caption string) {
	if caption == "" {
		return
	}
	h.raw(`<figcaption class="mt-3 text-center text-sm text-muted-foreground">`)
	h.text(caption)
	h.raw(`</figcaption>`)
}
