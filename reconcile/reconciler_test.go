package reconcile

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styleset/dom"
	"github.com/npillmayer/styleset/dom/domdbg"
	"github.com/npillmayer/styleset/dom/style/cssom"
	"github.com/npillmayer/styleset/precedence"
	"github.com/npillmayer/styleset/registry"
	"github.com/npillmayer/styleset/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func styleNode(tag, id, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
		Attr: []html.Attribute{
			{Key: precedence.IDAttribute, Val: id},
			{Key: precedence.TagAttribute, Val: tag},
		},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func selectors(sheet cssom.StyleSheet) []string {
	var sels []string
	for _, r := range cssom.Rules(sheet) {
		sels = append(sels, r.Selector())
	}
	return sels
}

func TestReverseOrderDeletion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styleset.reconcile")
	defer teardown()
	//
	reg := registry.New()
	for _, s := range []string{".d1", ".d3", ".d4"} {
		reg.SeeSelector(s)
	}
	doc := dom.NewDocument()
	r := New(reg, doc)
	n, err := doc.AppendToHead(styleNode("rsh-high", "x",
		".k0{top:0} .d1{top:1px} .k2{top:2px} .d3{top:3px} .d4{top:4px} .k5{top:5px}"))
	require.NoError(t, err)
	stats, done, err := r.Scan(n)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, 3, stats.Deleted)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, []string{".k0", ".k2", ".k5"}, selectors(n.Sheet()))
	for _, id := range []string{"k0", "d1", "k2", "d3", "d4", "k5"} {
		assert.True(t, reg.HasClass(id), "class %q must be registered", id)
	}
	assert.True(t, r.Processed(n))
}

func TestConditionalGroupRecursion(t *testing.T) {
	reg := registry.New()
	reg.SeeSelector(".x")
	doc := dom.NewDocument()
	r := New(reg, doc)
	n, _ := doc.AppendToHead(styleNode("rsh-mid", "g",
		"@media (min-width: 100px) { .x{top:0} .y{left:0} }"))
	_, _, err := r.Scan(n)
	require.NoError(t, err)
	require.Equal(t, 1, n.Sheet().Length())
	group := n.Sheet().Item(0).(cssom.Grouping)
	assert.Equal(t, []string{".y"}, selectors(group.CSSRules()))
}

func TestConditionalGroupSurvivesEmptying(t *testing.T) {
	reg := registry.New()
	reg.SeeSelector(".x")
	reg.SeeSelector(".y")
	doc := dom.NewDocument()
	r := New(reg, doc)
	n, _ := doc.AppendToHead(styleNode("rsh-mid", "g",
		"@media print { .x{top:0} .y{left:0} }"))
	stats, _, _ := r.Scan(n)
	assert.Equal(t, 2, stats.Deleted)
	require.Equal(t, 1, n.Sheet().Length())
	rule := n.Sheet().Item(0)
	assert.Equal(t, cssom.GroupingRule, rule.Kind())
	assert.Equal(t, 0, rule.(cssom.Grouping).CSSRules().Length())
}

func TestPresentDuplicatesOnStart(t *testing.T) {
	page := `<html><head>
<style precedence="rsh-high" href="c">.x{color:red}.x{color:red}</style>
</head><body></body></html>`
	doc, err := dom.ParseDocument(strings.NewReader(page))
	require.NoError(t, err)
	reg := registry.New()
	r := New(reg, doc)
	require.NoError(t, r.Start())
	styles := doc.StyleElements()
	require.Len(t, styles, 1)
	assert.Equal(t, []string{".x"}, selectors(styles[0].Sheet()))
	assert.True(t, reg.HasClass("x"))
	assert.ErrorIs(t, r.Start(), ErrAlreadyStarted)
}

func TestForeignStylesAreIgnored(t *testing.T) {
	page := `<html><head>
<style>.x{color:red}.x{color:red}</style>
<style precedence="theme">.x{color:red}.x{color:red}</style>
</head><body></body></html>`
	doc, err := dom.ParseDocument(strings.NewReader(page))
	require.NoError(t, err)
	reg := registry.New()
	require.NoError(t, New(reg, doc).Start())
	for _, s := range doc.StyleElements() {
		assert.Equal(t, 2, s.Sheet().Length())
	}
	c, sels := reg.Len()
	assert.Zero(t, c)
	assert.Zero(t, sels)
}

func TestCustomPrefix(t *testing.T) {
	page := `<html><head>
<style data-tier="app-1">.x{top:0}.x{top:0}</style>
</head><body></body></html>`
	doc, err := dom.ParseDocument(strings.NewReader(page))
	require.NoError(t, err)
	r := New(registry.New(), doc, WithAttribute("data-tier"), WithPrefix("app"))
	require.NoError(t, r.Start())
	assert.Equal(t, 1, doc.StyleElements()[0].Sheet().Length())
}

func TestObservedInsertions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styleset.reconcile")
	defer teardown()
	//
	doc := dom.NewDocument()
	reg := registry.New()
	r := New(reg, doc)
	require.NoError(t, r.Start())
	first, _, _ := doc.Hoist(styleNode("rsh-high", "h1", ".a{top:0} .b{top:1px}"))
	second, _, _ := doc.Hoist(styleNode("rsh-high", "h2", ".b{top:1px} .c{top:2px}"))
	assert.False(t, r.Processed(first), "scan must wait for mutation delivery")
	doc.Flush()
	assert.True(t, r.Processed(first))
	assert.True(t, r.Processed(second))
	assert.Equal(t, []string{".a", ".b"}, selectors(first.Sheet()))
	assert.Equal(t, []string{".c"}, selectors(second.Sheet()))
	assert.Equal(t, []string{"a", "b", "c"}, reg.Classes())
	t.Logf("document styles:\n%s", domdbg.Dump(doc))
	//
	r.Stop()
	third, _, _ := doc.Hoist(styleNode("rsh-high", "h3", ".a{top:0}"))
	doc.Flush()
	assert.False(t, r.Processed(third))
	assert.Equal(t, 1, third.Sheet().Length())
}

func TestProcessedContainersAreNotRescanned(t *testing.T) {
	doc := dom.NewDocument()
	reg := registry.New()
	r := New(reg, doc)
	require.NoError(t, r.Start())
	n, _, _ := doc.Hoist(styleNode("rsh-low", "l1", ".a{top:0}"))
	doc.Flush()
	require.True(t, r.Processed(n))
	// new content for a processed container stays untouched
	require.NoError(t, doc.SetStyleText(n, ".a{top:0} .a{top:0}"))
	doc.Flush()
	assert.Equal(t, 2, n.Sheet().Length())
}

func TestUnparsedContainerIsSkipped(t *testing.T) {
	doc := dom.NewDocument(dom.DeferParsing())
	reg := registry.New()
	r := New(reg, doc)
	require.NoError(t, r.Start())
	n, _, _ := doc.Hoist(styleNode("rsh-low", "l1", ".a{top:0} .a{top:0}"))
	doc.Flush()
	assert.False(t, r.Processed(n), "unparsed container must remain unseen")
	assert.False(t, reg.HasClass("a"))
	// a later content change picks it up
	require.NoError(t, doc.SetStyleText(n, ".a{top:0} .a{top:0}"))
	doc.Settle()
	doc.Flush()
	assert.True(t, r.Processed(n))
	assert.Equal(t, 1, n.Sheet().Length())
	assert.True(t, reg.HasClass("a"))
}

func TestUnidentifiedSelectorDoesNotAbort(t *testing.T) {
	doc := dom.NewDocument()
	reg := registry.New()
	r := New(reg, doc)
	n, _ := doc.AppendToHead(styleNode("rsh-high", "h", ".a{top:0} div{top:0} .b{top:0}"))
	stats, done, err := r.Scan(n)
	assert.True(t, done)
	assert.ErrorIs(t, err, cssom.ErrNoClassIdentifier)
	assert.Equal(t, 1, stats.Unidentified)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, []string{"a", "b"}, reg.Classes())
	assert.True(t, reg.HasSelector("div"))
}

func TestRenderReconcileRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styleset.reconcile")
	defer teardown()
	//
	doc := dom.NewDocument()
	reg := registry.New()
	renderer := render.New(reg)
	require.NoError(t, New(reg, doc).Start())
	rules := []precedence.Rule{
		precedence.Tagged("l-a", ".l-a{color:red}"),
		precedence.Tagged("h-b", ".h-b{color:blue}"),
	}
	paint := func() render.Result {
		res := renderer.Render(rules)
		for _, c := range res.Containers {
			_, _, err := doc.Hoist(c.Node())
			require.NoError(t, err)
		}
		renderer.Commit()
		doc.Flush()
		return res
	}
	res := paint()
	assert.Len(t, res.Containers, 3)
	assert.True(t, reg.HasClass("l-a"))
	assert.True(t, reg.HasClass("h-b"))
	res = paint()
	assert.Empty(t, res.Containers, "second render must not deliver anything")
	assert.Equal(t, []string{"l-a", "h-b"}, res.Discarded)
	assert.Len(t, doc.StyleElements(), 3)
}

func TestConcurrentRendersAreReconciled(t *testing.T) {
	doc := dom.NewDocument()
	reg := registry.New()
	require.NoError(t, New(reg, doc).Start())
	// two renderers racing on the same registry before any reconciliation
	a := render.New(reg).Render([]precedence.Rule{
		precedence.Tagged("h-x", ".h-x{top:0}"),
	})
	b := render.New(reg).Render([]precedence.Rule{
		precedence.Tagged("h-x", ".h-x{top:0}"),
		precedence.Tagged("h-y", ".h-y{top:1px}"),
	})
	for _, c := range append(a.Containers, b.Containers...) {
		doc.Hoist(c.Node())
	}
	doc.Flush()
	total := 0
	for _, s := range doc.StyleElements() {
		for _, sel := range selectors(s.Sheet()) {
			if sel == ".h-x" {
				total++
			}
		}
	}
	assert.Equal(t, 1, total, "exactly one .h-x rule must survive")
}

func TestUnsupportedAtRuleKeepsSiblings(t *testing.T) {
	for _, block := range []string{
		"@container (min-width: 10px) { .x{top:0} }",
		"@layer base { .x{top:0} }",
	} {
		doc := dom.NewDocument()
		reg := registry.New()
		r := New(reg, doc)
		n, err := doc.AppendToHead(styleNode("rsh-high", "h", ".a{top:0} "+block+" .a{top:0}"))
		require.NoError(t, err)
		stats, done, err := r.Scan(n)
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, 1, stats.Kept, "siblings of %q must be reconciled", block)
		assert.Equal(t, 1, stats.Deleted)
		assert.Equal(t, []string{"a"}, reg.Classes())
	}
}

func TestSelectorListsAreNormalized(t *testing.T) {
	doc := dom.NewDocument()
	reg := registry.New()
	r := New(reg, doc)
	n, _ := doc.AppendToHead(styleNode("rsh-high", "h", ".a , .b{top:0} .a,.b{top:0}"))
	stats, _, err := r.Scan(n)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, []string{".a, .b"}, selectors(n.Sheet()))
}
