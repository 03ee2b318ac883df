package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
)

const defaultPDFFontSize = 9

var (
	markupTags  = regexp.MustCompile(`<[^>]*>`)
	blankRuns   = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n\s*\n+`)
	mutedColor  = &props.Color{Red: 107, Green: 114, Blue: 128}
	entityFixer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'", "&quot;", `"`)
)

// PDFRenderer lays a quotation out as a PDF using the same section order as
// the HTML output. Header and footer markup is reduced to plain text.
type PDFRenderer struct {
	fontSize float64
}

func NewPDFRenderer(fontSize float64) *PDFRenderer {
	if fontSize <= 0 {
		fontSize = defaultPDFFontSize
	}
	return &PDFRenderer{fontSize: fontSize}
}

func (r *PDFRenderer) RenderPDF(tmpl *tpldomain.Template, doc Document) ([]byte, error) {
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(12).
		WithTopMargin(15).
		WithRightMargin(12).
		Build()
	m := maroto.New(cfg)

	values := doc.Values()
	primary := parseColor(tmpl.Styles.Data().PrimaryColor)

	r.addHeader(m, doc, PlainText(Substitute(tmpl.Header, values)), primary)
	for _, section := range tmpl.VisibleSections() {
		r.addSection(m, section, doc, values, primary)
	}
	if footer := PlainText(Substitute(tmpl.Footer, values)); footer != "" {
		m.AddRow(4, line.NewCol(12))
		m.AddRow(r.height(footer), col.New(12).Add(
			text.New(footer, props.Text{Size: r.fontSize - 1, Color: mutedColor}),
		))
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

func (r *PDFRenderer) addHeader(m core.Maroto, doc Document, header string, primary *props.Color) {
	left := header
	if left == "" {
		left = doc.Company.Name
	}
	m.AddRow(r.height(left)+8,
		col.New(7).Add(
			text.New(left, props.Text{Size: r.fontSize, Align: align.Left}),
		),
		col.New(5).Add(
			text.New("QUOTATION", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right, Color: primary}),
			text.New("# "+doc.Quotation.Number, props.Text{Size: r.fontSize + 1, Top: 8, Align: align.Right}),
		),
	)
	m.AddRow(5, line.NewCol(12))
}

func (r *PDFRenderer) addSection(m core.Maroto, section tpldomain.Section, doc Document, values Values, primary *props.Color) {
	if title := Substitute(section.Title, values); title != "" {
		m.AddRow(8, col.New(12).Add(
			text.New(strings.ToUpper(title), props.Text{Size: r.fontSize, Style: fontstyle.Bold, Top: 2, Color: primary}),
		))
	}

	switch section.Type {
	case tpldomain.SectionClientInfo:
		r.addClientInfo(m, doc)
	case tpldomain.SectionItemsTable:
		r.addItemsTable(m, doc)
	case tpldomain.SectionSummary:
		r.addSummary(m, doc)
	case tpldomain.SectionTerms:
		r.addTerms(m, doc)
	}

	if content := PlainText(Substitute(section.Content, values)); content != "" {
		m.AddRow(r.height(content), col.New(12).Add(
			text.New(content, props.Text{Size: r.fontSize}),
		))
	}
	if section.Type.Builtin() || section.Content != "" {
		m.AddRow(4)
	}
}

func (r *PDFRenderer) addClientInfo(m core.Maroto, doc Document) {
	lines := []string{doc.Client.Name, doc.Client.Company, doc.Client.Address, doc.Client.Email, doc.Client.Phone}
	for i, value := range lines {
		if value == "" {
			continue
		}
		style := fontstyle.Normal
		if i == 0 {
			style = fontstyle.Bold
		}
		m.AddRow(5, col.New(12).Add(text.New(value, props.Text{Size: r.fontSize, Style: style})))
	}
}

func (r *PDFRenderer) addItemsTable(m core.Maroto, doc Document) {
	head := props.Text{Size: r.fontSize - 1, Style: fontstyle.Bold, Color: mutedColor}
	headRight := head
	headRight.Align = align.Right
	m.AddRow(7,
		col.New(5).Add(text.New("ITEM", head)),
		col.New(1).Add(text.New("QTY", headRight)),
		col.New(2).Add(text.New("UNIT PRICE", headRight)),
		col.New(1).Add(text.New("DISC", headRight)),
		col.New(1).Add(text.New("TAX", headRight)),
		col.New(2).Add(text.New("AMOUNT", headRight)),
	)
	m.AddRow(2, line.NewCol(12))

	cell := props.Text{Size: r.fontSize}
	right := props.Text{Size: r.fontSize, Align: align.Right}
	for _, item := range doc.Items {
		name := item.Name
		if item.Description != "" {
			name += "\n" + item.Description
		}
		m.AddRow(r.height(name),
			col.New(5).Add(text.New(name, cell)),
			col.New(1).Add(text.New(item.Quantity, right)),
			col.New(2).Add(text.New(item.UnitPrice, right)),
			col.New(1).Add(text.New(item.DiscountPercent, right)),
			col.New(1).Add(text.New(item.TaxPercent, right)),
			col.New(2).Add(text.New(item.Total, right)),
		)
	}
	m.AddRow(2, line.NewCol(12))
	m.AddRow(6,
		col.New(10).Add(text.New("Subtotal", props.Text{Size: r.fontSize, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(doc.Quotation.Subtotal, props.Text{Size: r.fontSize, Style: fontstyle.Bold, Align: align.Right})),
	)
}

func (r *PDFRenderer) addSummary(m core.Maroto, doc Document) {
	q := doc.Quotation
	discount := "Discount"
	if q.DiscountLabel != "" {
		discount += " (" + q.DiscountLabel + ")"
	}
	tax := q.TaxName
	if tax == "" {
		tax = "Tax"
	}
	rows := [][2]string{
		{"Subtotal", q.Subtotal},
		{discount, q.DiscountDeduction},
		{tax + " (" + q.TaxPercentage + ")", q.TaxAmount},
		{"Shipping", q.Shipping},
	}
	for _, row := range rows {
		m.AddRow(5,
			col.New(8),
			col.New(2).Add(text.New(row[0], props.Text{Size: r.fontSize, Align: align.Left})),
			col.New(2).Add(text.New(row[1], props.Text{Size: r.fontSize, Align: align.Right})),
		)
	}
	m.AddRow(7,
		col.New(8),
		col.New(2).Add(text.New("Total", props.Text{Size: r.fontSize + 2, Style: fontstyle.Bold, Top: 1})),
		col.New(2).Add(text.New(q.Total, props.Text{Size: r.fontSize + 2, Style: fontstyle.Bold, Top: 1, Align: align.Right})),
	)
}

func (r *PDFRenderer) addTerms(m core.Maroto, doc Document) {
	for _, term := range doc.Terms {
		if term.Title != "" {
			m.AddRow(5, col.New(12).Add(text.New(term.Title, props.Text{Size: r.fontSize, Style: fontstyle.Bold})))
		}
		if term.Content != "" {
			m.AddRow(r.height(term.Content), col.New(12).Add(text.New(term.Content, props.Text{Size: r.fontSize})))
		}
	}
}

// height estimates a row height for wrapped text.
func (r *PDFRenderer) height(value string) float64 {
	lines := 1
	for _, part := range strings.Split(value, "\n") {
		lines += len(part) / 110
	}
	lines += strings.Count(value, "\n")
	return float64(lines) * (r.fontSize*0.45 + 1)
}

// PlainText strips markup and collapses whitespace so HTML fragments can be
// laid out as PDF text.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	out := markupTags.ReplaceAllString(markup, "\n")
	out = entityFixer.Replace(out)
	out = blankRuns.ReplaceAllString(out, " ")
	lines := strings.Split(out, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	out = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n")
	return strings.TrimSpace(out)
}

func parseColor(value string) *props.Color {
	hex := sanitizeColor(value)
	red, _ := strconv.ParseUint(hex[1:3], 16, 8)
	green, _ := strconv.ParseUint(hex[3:5], 16, 8)
	blue, _ := strconv.ParseUint(hex[5:7], 16, 8)
	return &props.Color{Red: int(red), Green: int(green), Blue: int(blue)}
}
