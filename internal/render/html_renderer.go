package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
)

const (
	defaultPrimaryColor = "#111827"
	defaultFontFamily   = "Space Grotesk"
	defaultFontSize     = 14
)

const baseCSS = `* { box-sizing: border-box; }
.quotation {
  max-width: 820px;
  margin: 0 auto;
  font-family: var(--font), "Helvetica Neue", Arial, sans-serif;
  font-size: var(--font-size);
  color: #111827;
}
.quotation-header {
  display: flex;
  justify-content: space-between;
  align-items: flex-start;
  border-bottom: 2px solid var(--primary);
  padding-bottom: 16px;
  margin-bottom: 24px;
}
.quotation-meta { text-align: right; }
.quotation-label {
  color: #6b7280;
  text-transform: uppercase;
  letter-spacing: 0.04em;
  font-size: 11px;
}
.quotation-section { margin-bottom: 24px; }
.quotation-section-title {
  color: var(--primary);
  font-size: 13px;
  text-transform: uppercase;
  letter-spacing: 0.04em;
  margin: 0 0 8px;
}
.quotation-table {
  width: 100%;
  border-collapse: collapse;
}
.quotation-table th, .quotation-table td {
  padding: 10px;
  border-bottom: 1px solid #e5e7eb;
  text-align: left;
}
.quotation-table th {
  text-transform: uppercase;
  font-size: 11px;
  letter-spacing: 0.04em;
  color: #6b7280;
}
.quotation-table .num { text-align: right; }
.quotation-summary { margin-left: auto; width: 320px; }
.quotation-summary div { display: flex; justify-content: space-between; padding: 4px 0; }
.quotation-summary .quotation-total { font-weight: 700; border-top: 1px solid #e5e7eb; }
.quotation-term h3 { font-size: 13px; margin: 12px 0 4px; }
.quotation-footer {
  border-top: 1px solid #e5e7eb;
  padding-top: 16px;
  font-size: 12px;
  color: #6b7280;
}
`

const sectionLayouts = `
{{define "client_info"}}<div class="quotation-client">
  <div><strong>{{.Doc.Client.Name}}</strong></div>
  {{if .Doc.Client.Company}}<div>{{.Doc.Client.Company}}</div>{{end}}
  {{if .Doc.Client.Address}}<div>{{.Doc.Client.Address}}</div>{{end}}
  {{if .Doc.Client.Email}}<div>{{.Doc.Client.Email}}</div>{{end}}
  {{if .Doc.Client.Phone}}<div>{{.Doc.Client.Phone}}</div>{{end}}
</div>{{end}}

{{define "items_table"}}<table class="quotation-table">
  <thead>
    <tr>
      <th>#</th>
      <th>Item</th>
      <th class="num">Qty</th>
      <th class="num">Unit Price</th>
      <th class="num">Discount</th>
      <th class="num">Tax</th>
      <th class="num">Amount</th>
    </tr>
  </thead>
  <tbody>
    {{range .Doc.Items}}<tr>
      <td>{{.Position}}</td>
      <td>{{.Name}}{{if .Description}}<div class="quotation-item-description">{{.Description}}</div>{{end}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice}}</td>
      <td class="num">{{.DiscountPercent}}</td>
      <td class="num">{{.TaxPercent}}</td>
      <td class="num">{{.Total}}</td>
    </tr>
    {{end}}
  </tbody>
  <tfoot>
    <tr>
      <td colspan="6">Subtotal</td>
      <td class="num">{{.Doc.Quotation.Subtotal}}</td>
    </tr>
  </tfoot>
</table>{{end}}

{{define "summary"}}<div class="quotation-summary">
  <div><span>Subtotal</span><span>{{.Doc.Quotation.Subtotal}}</span></div>
  <div><span>Discount{{if .Doc.Quotation.DiscountLabel}} ({{.Doc.Quotation.DiscountLabel}}){{end}}</span><span>{{.Doc.Quotation.DiscountDeduction}}</span></div>
  <div><span>{{if .Doc.Quotation.TaxName}}{{.Doc.Quotation.TaxName}}{{else}}Tax{{end}} ({{.Doc.Quotation.TaxPercentage}})</span><span>{{.Doc.Quotation.TaxAmount}}</span></div>
  <div><span>Shipping</span><span>{{.Doc.Quotation.Shipping}}</span></div>
  <div class="quotation-total"><span>Total</span><span>{{.Doc.Quotation.Total}}</span></div>
</div>{{end}}

{{define "terms"}}<div class="quotation-terms">
  {{range .Doc.Terms}}<div class="quotation-term">
    {{if .Title}}<h3>{{.Title}}</h3>{{end}}
    <p>{{.Content}}</p>
  </div>
  {{end}}
</div>{{end}}

{{define "section"}}<section class="quotation-section quotation-section-{{.Type}}" data-section="{{.Type}}">
  {{if .Title}}<h2 class="quotation-section-title">{{.Title}}</h2>{{end}}
  {{if eq .Type "client_info"}}{{template "client_info" .}}{{else if eq .Type "items_table"}}{{template "items_table" .}}{{else if eq .Type "summary"}}{{template "summary" .}}{{else if eq .Type "terms"}}{{template "terms" .}}{{end}}
  {{if .Content}}<div class="quotation-section-content">{{.Content}}</div>{{end}}
</section>
{{end}}
`

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	fontFamilyFilter = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
)

// Renderer turns a template and a bound document into HTML.
type Renderer interface {
	RenderHTML(tmpl *tpldomain.Template, doc Document) (string, error)
}

type HTMLRenderer struct {
	sections *template.Template
}

type sectionView struct {
	Type    string
	Title   string
	Content template.HTML
	Doc     Document
}

func NewRenderer() *HTMLRenderer {
	base := template.Must(template.New("sections").Parse(sectionLayouts))
	return &HTMLRenderer{sections: base}
}

// RenderHTML writes the style block, the header, every visible section in
// order and the footer. Identical input yields identical output.
func (r *HTMLRenderer) RenderHTML(tmpl *tpldomain.Template, doc Document) (string, error) {
	if tmpl == nil {
		return "", ErrTemplateNotFound
	}

	raw := doc.Values()
	values := raw.Escaped()
	styles := tmpl.Styles.Data()

	var buf bytes.Buffer
	buf.WriteString(styleBlock(styles))
	buf.WriteString(`<div class="quotation">` + "\n")
	if tmpl.Header != "" {
		buf.WriteString(Substitute(tmpl.Header, values))
		buf.WriteString("\n")
	}

	for _, section := range tmpl.VisibleSections() {
		if err := r.renderSection(&buf, section, doc, raw, values); err != nil {
			return "", fmt.Errorf("render section %s: %w", section.Type, err)
		}
	}

	if tmpl.Footer != "" {
		buf.WriteString(Substitute(tmpl.Footer, values))
		buf.WriteString("\n")
	}
	buf.WriteString("</div>\n")
	return buf.String(), nil
}

func (r *HTMLRenderer) renderSection(buf *bytes.Buffer, section tpldomain.Section, doc Document, raw, escaped Values) error {
	view := sectionView{
		Type:    string(section.Type),
		Title:   Substitute(section.Title, raw),
		// Content is template markup owned by the organization.
		Content: template.HTML(Substitute(section.Content, escaped)),
		Doc:     doc,
	}
	return r.sections.ExecuteTemplate(buf, "section", view)
}

func styleBlock(styles tpldomain.Styles) string {
	fontSize := styles.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}

	var b strings.Builder
	b.WriteString("<style>\n")
	fmt.Fprintf(&b, ":root {\n  --primary: %s;\n  --font: \"%s\";\n  --font-size: %dpx;\n}\n",
		sanitizeColor(styles.PrimaryColor), sanitizeFont(styles.FontFamily), fontSize)
	b.WriteString(baseCSS)
	if strings.TrimSpace(styles.CustomCSS) != "" {
		b.WriteString(styles.CustomCSS)
		b.WriteString("\n")
	}
	b.WriteString("</style>\n")
	return b.String()
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultPrimaryColor
}

func sanitizeFont(value string) string {
	trimmed := strings.TrimSpace(value)
	if fontFamilyFilter.MatchString(trimmed) {
		return trimmed
	}
	return defaultFontFamily
}
