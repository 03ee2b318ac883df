package render

import (
	"strings"
	"testing"

	"github.com/smallbiznis/quotely/internal/money"
	"github.com/smallbiznis/quotely/internal/pricing"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTemplate(sections []tpldomain.Section, styles tpldomain.Styles) *tpldomain.Template {
	return &tpldomain.Template{
		Name:     "Test",
		Header:   `<header class="quotation-header">Hello {{company_name}} {{unknown_field}}</header>`,
		Footer:   `<footer class="quotation-footer">{{quotation.number}}</footer>`,
		Sections: datatypes.JSONSlice[tpldomain.Section](sections),
		Styles:   datatypes.NewJSONType(styles),
	}
}

func TestRenderHTMLSectionOrderAndVisibility(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "s", Type: tpldomain.SectionSummary, Title: "Summary", Order: 2, IsVisible: true},
		{ID: "c", Type: tpldomain.SectionClientInfo, Title: "Client", Order: 1, IsVisible: true},
		{ID: "t", Type: tpldomain.SectionTerms, Title: "Terms", Order: 3, IsVisible: false},
	}, tpldomain.Styles{})

	out, err := NewRenderer().RenderHTML(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)

	client := strings.Index(out, `data-section="client_info"`)
	summary := strings.Index(out, `data-section="summary"`)
	require.GreaterOrEqual(t, client, 0)
	require.GreaterOrEqual(t, summary, 0)
	assert.Less(t, client, summary)
	assert.NotContains(t, out, `data-section="terms"`)
	assert.NotContains(t, out, "50% upfront.")
}

func TestRenderHTMLRegionOrder(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "i", Type: tpldomain.SectionItemsTable, Title: "Items", Order: 1, IsVisible: true},
	}, tpldomain.Styles{CustomCSS: ".quotation-table td { color: red; }"})

	out, err := NewRenderer().RenderHTML(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)

	style := strings.Index(out, "<style>")
	header := strings.Index(out, "<header")
	items := strings.Index(out, `data-section="items_table"`)
	footer := strings.Index(out, "<footer")
	assert.True(t, style < header && header < items && items < footer, "unexpected region order")

	assert.Contains(t, out, "Hello Acme {{unknown_field}}")
	assert.Contains(t, out, `<footer class="quotation-footer">QUO-2025-0001</footer>`)
	assert.Equal(t, 1, strings.Count(out, ".quotation-table td { color: red; }"))
	assert.Less(t, strings.Index(out, ".quotation-table td { color: red; }"), strings.Index(out, "</style>"))
}

func TestRenderHTMLItemsTable(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "i", Type: tpldomain.SectionItemsTable, Order: 1, IsVisible: true},
	}, tpldomain.Styles{})

	out, err := NewRenderer().RenderHTML(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "<tr>\n      <td>"))
	assert.Contains(t, out, `<td class="num">$900.00</td>`)
	assert.Contains(t, out, `<td class="num">$1,200.00</td>`)
	assert.Contains(t, out, "12 months")
	assert.Contains(t, out, "$2,100.00")
}

func TestRenderHTMLCustomSectionContent(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "a", Type: "acceptance", Title: "Accepted by {{client.company}}", Order: 1, IsVisible: true,
			Content: `<p class="sign">{{client.name}}</p>`},
	}, tpldomain.Styles{})

	q := sampleQuotation()
	q.Client.Name = "Jane <script>"
	out, err := NewRenderer().RenderHTML(tmpl, Bind(q, sampleOrg(), nil))
	require.NoError(t, err)

	assert.Contains(t, out, `data-section="acceptance"`)
	assert.Contains(t, out, "Accepted by Globex")
	assert.Contains(t, out, `<p class="sign">Jane &lt;script&gt;</p>`)
	assert.NotContains(t, out, "<script>")
}

func TestRenderHTMLSanitizesStyles(t *testing.T) {
	tmpl := newTemplate(nil, tpldomain.Styles{PrimaryColor: "red;}", FontFamily: "x\"; }", FontSize: 0})

	out, err := NewRenderer().RenderHTML(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)

	assert.Contains(t, out, "--primary: #111827;")
	assert.Contains(t, out, `--font: "Space Grotesk";`)
	assert.Contains(t, out, "--font-size: 14px;")
}

func TestRenderHTMLDeterministic(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "c", Type: tpldomain.SectionClientInfo, Order: 1, IsVisible: true},
		{ID: "i", Type: tpldomain.SectionItemsTable, Order: 2, IsVisible: true},
		{ID: "s", Type: tpldomain.SectionSummary, Order: 3, IsVisible: true},
		{ID: "t", Type: tpldomain.SectionTerms, Order: 4, IsVisible: true},
	}, tpldomain.Styles{PrimaryColor: "#2563EB"})
	doc := Bind(sampleQuotation(), sampleOrg(), nil)

	renderer := NewRenderer()
	first, err := renderer.RenderHTML(tmpl, doc)
	require.NoError(t, err)
	second, err := renderer.RenderHTML(tmpl, doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderHTMLPrebuiltTemplates(t *testing.T) {
	doc := Bind(sampleQuotation(), sampleOrg(), nil)
	for _, req := range tpldomain.Prebuilt() {
		tmpl := newTemplate(req.Sections, req.Styles)
		tmpl.Header = req.Header
		tmpl.Footer = req.Footer

		out, err := NewRenderer().RenderHTML(tmpl, doc)
		require.NoError(t, err, req.Name)
		assert.Contains(t, out, "QUO-2025-0001", req.Name)
		assert.NotContains(t, out, "{{company", req.Name)
	}
}

func TestRenderHTMLNilTemplate(t *testing.T) {
	_, err := NewRenderer().RenderHTML(nil, Document{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestPlainText(t *testing.T) {
	got := PlainText("<div>\n  <h1>Acme</h1>\n  <div>a &amp; b</div>\n</div>")
	assert.Equal(t, "Acme\na & b", got)
}

func TestRenderPDF(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "c", Type: tpldomain.SectionClientInfo, Title: "Client", Order: 1, IsVisible: true},
		{ID: "i", Type: tpldomain.SectionItemsTable, Title: "Items", Order: 2, IsVisible: true},
		{ID: "s", Type: tpldomain.SectionSummary, Title: "Summary", Order: 3, IsVisible: true},
		{ID: "t", Type: tpldomain.SectionTerms, Title: "Terms", Order: 4, IsVisible: true},
	}, tpldomain.Styles{PrimaryColor: "#2563EB"})

	body, err := NewPDFRenderer(0).RenderPDF(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestParseColor(t *testing.T) {
	c := parseColor("#2563EB")
	assert.Equal(t, 0x25, c.Red)
	assert.Equal(t, 0x63, c.Green)
	assert.Equal(t, 0xEB, c.Blue)

	fallback := parseColor("nope")
	assert.Equal(t, 0x11, fallback.Red)
}

func TestRenderHTMLSummaryDiscountSign(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "s", Type: tpldomain.SectionSummary, Order: 1, IsVisible: true},
	}, tpldomain.Styles{})

	out, err := NewRenderer().RenderHTML(tmpl, Bind(sampleQuotation(), sampleOrg(), nil))
	require.NoError(t, err)
	assert.Contains(t, out, "<span>-$105.00</span>")

	q := sampleQuotation()
	q.DiscountType = pricing.DiscountFixed
	q.DiscountValue = -50
	q.Recompute()

	out, err = NewRenderer().RenderHTML(tmpl, Bind(q, sampleOrg(), nil))
	require.NoError(t, err)
	assert.Contains(t, out, "<span>$50.00</span>")
	assert.NotContains(t, out, "--$")
}

func TestRenderHTMLOverflowedTotals(t *testing.T) {
	tmpl := newTemplate([]tpldomain.Section{
		{ID: "i", Type: tpldomain.SectionItemsTable, Order: 1, IsVisible: true},
		{ID: "s", Type: tpldomain.SectionSummary, Order: 2, IsVisible: true},
	}, tpldomain.Styles{})

	q := sampleQuotation()
	q.Items[0].UnitPrice = 1e200
	q.Items[0].Quantity = 1e200
	q.Recompute()

	var out string
	var err error
	require.NotPanics(t, func() {
		out, err = NewRenderer().RenderHTML(tmpl, Bind(q, sampleOrg(), nil))
	})
	require.NoError(t, err)
	assert.Contains(t, out, money.NotANumber)
}
