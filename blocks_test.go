package showcase

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBlocks(t *testing.T) {
	body := `Intro paragraph.

<Callout type="warning"
         title="Heads up">
  Indented **body**.

  <Image src="/a.png" alt={"An image"} />
</Callout>

Outro.
`
	blocks, err := ParseBlocks([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
	}
	if blocks[0].IsComponent() || !strings.Contains(string(blocks[0].Markdown), "Intro") {
		t.Errorf("block 0 = %+v", blocks[0])
	}

	c := blocks[1]
	if c.Name != "Callout" || c.Line != 3 {
		t.Errorf("block 1 = %s at line %d", c.Name, c.Line)
	}
	if want := (Attributes{"type": "warning", "title": "Heads up"}); !reflect.DeepEqual(c.Attrs, want) {
		t.Errorf("attrs = %v, want %v", c.Attrs, want)
	}
	if len(c.Children) != 2 {
		t.Fatalf("callout has %d children, want 2: %+v", len(c.Children), c.Children)
	}
	if md := string(c.Children[0].Markdown); strings.HasPrefix(strings.TrimLeft(md, "\n"), " ") {
		t.Errorf("child markdown not dedented: %q", md)
	}
	img := c.Children[1]
	if img.Name != "Image" || img.Attrs.Get("alt") != "An image" || img.Attrs.Get("src") != "/a.png" {
		t.Errorf("image = %+v", img)
	}

	if !strings.Contains(string(blocks[2].Markdown), "Outro.") {
		t.Errorf("block 2 = %q", blocks[2].Markdown)
	}
}

func TestParseBlocksNested(t *testing.T) {
	body := "<Box>\n<Box>\ninner\n</Box>\nouter\n</Box>\n"
	blocks, err := ParseBlocks([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].Name != "Box" {
		t.Fatalf("blocks = %+v", blocks)
	}
	kids := blocks[0].Children
	if len(kids) != 2 || kids[0].Name != "Box" || !strings.Contains(string(kids[1].Markdown), "outer") {
		t.Errorf("children = %+v", kids)
	}
}

func TestParseBlocksIgnoresFences(t *testing.T) {
	body := "```mdx\n<Callout>\nnot a component\n```\n\n~~~\n<Video src=\"x\" />\n~~~\n"
	blocks, err := ParseBlocks([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range blocks {
		if b.IsComponent() {
			t.Errorf("found component %q inside a fence", b.Name)
		}
	}
}

func TestParseBlocksFenceInsideComponent(t *testing.T) {
	body := "<Callout>\n```\n</Callout>\n```\n</Callout>\nafter\n"
	blocks, err := ParseBlocks([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 || blocks[0].Name != "Callout" {
		t.Fatalf("blocks = %+v", blocks)
	}
	if !strings.Contains(string(blocks[0].Children[0].Markdown), "</Callout>") {
		t.Errorf("fenced close tag was not kept as code: %+v", blocks[0].Children)
	}
}

func TestParseBlocksErrors(t *testing.T) {
	for _, body := range []string{
		"<Callout>\nnever closed\n",
		"<Video src=\"x\"\n",
		"text\n\n<Callout kind=\"info\">\n<Callout>\n</Callout>\n",
	} {
		if _, err := ParseBlocks([]byte(body)); err == nil {
			t.Errorf("ParseBlocks(%q) succeeded, want error", body)
		}
	}
}

func TestParseBlocksLeavesHTML(t *testing.T) {
	body := "<div>lower case html</div>\n\n<br/>\n"
	blocks, err := ParseBlocks([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].IsComponent() {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestParseAttributes(t *testing.T) {
	for _, tc := range []struct {
		tag  string
		want Attributes
	}{
		{`<Video src="/v.mp4" aspectRatio="4:3" />`, Attributes{"src": "/v.mp4", "aspectratio": "4:3"}},
		{`<Video source={"/v.mp4"} controls>`, Attributes{"source": "/v.mp4", "controls": ""}},
		{`<YouTubeVideo videoId={'abc_123'} />`, Attributes{"videoid": "abc_123"}},
		{`<Callout title="a > b" kind={"danger"}>`, Attributes{"title": "a > b", "kind": "danger"}},
		{`<Chart size={16} />`, Attributes{"size": "16"}},
	} {
		got, err := parseAttributes([]byte(tc.tag))
		if err != nil {
			t.Errorf("parseAttributes(%q): %v", tc.tag, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseAttributes(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestDedent(t *testing.T) {
	in := "\n    a\n      b\n\n    c\n"
	want := "\na\n  b\n\nc\n"
	if got := string(dedent([]byte(in))); got != want {
		t.Errorf("dedent = %q, want %q", got, want)
	}
}

func TestParseBlocksInlineEmbedsStayInMarkdown(t *testing.T) {
	for _, body := range []string{
		"Built with <Badge>Go</Badge> today.\n",
		"<Badge>Go</Badge> leads the line.\n",
		"> <Callout kind=\"danger\">quoted</Callout>\n",
		"- item\n  <Callout>in list</Callout>\n",
	} {
		blocks, err := ParseBlocks([]byte(body))
		if err != nil {
			t.Fatalf("ParseBlocks(%q): %v", body, err)
		}
		if len(blocks) != 1 || blocks[0].IsComponent() {
			t.Errorf("ParseBlocks(%q) = %+v, want one Markdown run", body, blocks)
		}
	}
}

func TestParseBlocksSingleLineChildrenAreInline(t *testing.T) {
	blocks, err := ParseBlocks([]byte("<Callout>Short note.</Callout>\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || len(blocks[0].Children) != 1 || !blocks[0].Children[0].Inline {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestExtractEmbeds(t *testing.T) {
	src := "a \x02<Badge>x</Badge> b `<Badge/>` <Img src=\"/p.png\" /> List<T>\n"
	got, embeds, err := extractEmbeds([]byte(src), 4)
	if err != nil {
		t.Fatal(err)
	}
	want := "a " + placeholder(0) + " b `<Badge/>` " + placeholder(1) + " List<T>\n"
	if string(got) != want {
		t.Errorf("extractEmbeds = %q, want %q", got, want)
	}
	if len(embeds) != 2 || embeds[0].Name != "Badge" || embeds[1].Attrs.Get("src") != "/p.png" {
		t.Fatalf("embeds = %+v", embeds)
	}
	if embeds[0].Line != 4 || string(embeds[0].src) != "<Badge>x</Badge>" {
		t.Errorf("embed 0 at line %d from %q", embeds[0].Line, embeds[0].src)
	}
}

func TestUnquote(t *testing.T) {
	in := "\n> quoted\n>> deeper\n> "
	want := "\nquoted\n> deeper\n"
	if got := string(unquote([]byte(in), 1)); got != want {
		t.Errorf("unquote = %q, want %q", got, want)
	}
}
