package xhtml

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"glossa/gloss"
)

func format(t *testing.T, stream ...gloss.Inline) *gloss.Result {
	t.Helper()
	res, err := gloss.Format(stream)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return res
}

func serialize(t *testing.T, res *gloss.Result, opts Options, canonical bool) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = canonical
	AppendGloss(&doc.Element, res, opts)
	out, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("WriteToString() error = %v", err)
	}
	return out
}

func TestAppendGloss_AbsentCells(t *testing.T) {
	res := format(t, gloss.Text("The dog runs"), gloss.Break{}, gloss.Text("= the dog"))

	want := `<div class="gloss"><div class="gloss-body">` +
		`<div class="gloss-column"><span class="gloss-text">The</span><span class="gloss-gloss">the</span></div>` +
		`<div class="gloss-column"><span class="gloss-text">dog</span><span class="gloss-gloss">dog</span></div>` +
		`<div class="gloss-column"><span class="gloss-text">runs</span><span class="gloss-gloss gloss-absent"/></div>` +
		`</div></div>`
	if got := serialize(t, res, Options{}, false); got != want {
		t.Errorf("AppendGloss() =\n%s\nwant\n%s", got, want)
	}

	if got := serialize(t, res, Options{}, true); !strings.Contains(got, `<span class="gloss-gloss gloss-absent"></span>`) {
		t.Errorf("AppendGloss() with canonical end tags = %s", got)
	}
}

func TestAppendGloss_CaptionFooterAndRichContent(t *testing.T) {
	res := format(t,
		gloss.Text("| A "), &gloss.Rich{Kind: gloss.RichEmphasis, Children: []gloss.Span{gloss.Text("caption")}}, gloss.Break{},
		gloss.Text("The "), &gloss.Rich{Kind: gloss.RichLink, Href: "#dog", Children: []gloss.Span{gloss.Text("dog")}}, gloss.Text("s"), gloss.Break{},
		gloss.Text("/ le chien"), gloss.Break{},
		gloss.Text("= the "), &gloss.Rich{Kind: gloss.RichStyle, Class: "smallcaps", Children: []gloss.Span{gloss.Text("pl")}}, gloss.Break{},
		gloss.Text("| Source: "), &gloss.Rich{Kind: gloss.RichCode, Text: "x<y"},
	)

	want := `<div class="ex" id="ex-1">` +
		`<p class="ex-caption">A <em>caption</em></p>` +
		`<div class="ex-body">` +
		`<div class="ex-column"><span class="ex-text">The</span><span class="ex-transliteration">le</span><span class="ex-gloss">the</span></div>` +
		`<div class="ex-column"><span class="ex-text"><a href="#dog">dog</a>s</span><span class="ex-transliteration">chien</span><span class="ex-gloss"><span class="smallcaps">pl</span></span></div>` +
		`</div>` +
		`<p class="ex-footer">Source: <code>x&lt;y</code></p>` +
		`</div>`
	if got := serialize(t, res, Options{ClassPrefix: "ex", ID: "ex-1"}, false); got != want {
		t.Errorf("AppendGloss() =\n%s\nwant\n%s", got, want)
	}
}

func TestAppendGloss_EmptyGloss(t *testing.T) {
	res := format(t, gloss.Text("| Only a caption"))
	want := `<div class="gloss"><p class="gloss-caption">Only a caption</p><div class="gloss-body"></div></div>`
	if got := serialize(t, res, Options{}, true); got != want {
		t.Errorf("AppendGloss() = %s, want %s", got, want)
	}
}

func TestAppendRich_Image(t *testing.T) {
	doc := etree.NewDocument()
	p := doc.CreateElement("p")
	appendSpans(p, []gloss.Span{
		gloss.Text("see "),
		&gloss.Rich{Kind: gloss.RichImage, Href: "dog.png", Text: "a dog", Title: "Dog"},
		gloss.Text(" and "),
		&gloss.Rich{Kind: gloss.RichStrikethrough, Children: []gloss.Span{gloss.Text("cat")}},
	})
	out, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("WriteToString() error = %v", err)
	}
	want := `<p>see <img src="dog.png" alt="a dog" title="Dog"/> and <del>cat</del></p>`
	if out != want {
		t.Errorf("appendSpans() = %s, want %s", out, want)
	}
}
