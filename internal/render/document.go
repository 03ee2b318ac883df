package render

import (
	"strconv"
	"time"

	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/money"
	orgdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	"github.com/smallbiznis/quotely/internal/pricing"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
)

const dateLayout = "2006-01-02"

// Document is the display view of a priced quotation. Every value is
// already formatted, so rendering never reads the clock or formats money.
type Document struct {
	Company   CompanyView
	Client    ClientView
	Lead      *LeadView
	Quotation QuotationView
	Items     []ItemView
	Terms     []TermView
}

type CompanyView struct {
	Name      string
	Email     string
	Phone     string
	Website   string
	Address   string
	TaxNumber string
	LogoURL   string
}

type ClientView struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Address string
}

type LeadView struct {
	Title       string
	ContactName string
	Company     string
	Email       string
	Phone       string
	Status      string
}

type QuotationView struct {
	ID                string
	Number            string
	Title             string
	Status            string
	Currency          string
	IssueDate         string
	ValidUntil        string
	Notes             string
	DiscountLabel     string
	TaxName           string
	TaxPercentage     string
	Subtotal          string
	DiscountAmount    string
	// DiscountDeduction is the discount as it is subtracted in the summary.
	DiscountDeduction string
	TaxableAmount     string
	TaxAmount         string
	Shipping          string
	Total             string
}

type ItemView struct {
	Position        int
	Name            string
	Description     string
	Quantity        string
	UnitPrice       string
	DiscountPercent string
	TaxPercent      string
	Total           string
}

type TermView struct {
	Title   string
	Content string
}

// Bind builds the display document. lead may be nil.
func Bind(q *quotationdomain.Quotation, org *orgdomain.Organization, lead *leaddomain.Lead) Document {
	var doc Document
	if org != nil {
		doc.Company = CompanyView{
			Name:      org.Name,
			Email:     org.Email,
			Phone:     org.Phone,
			Website:   org.Website,
			Address:   org.Address,
			TaxNumber: org.TaxNumber,
			LogoURL:   org.LogoURL,
		}
	}
	if lead != nil {
		doc.Lead = &LeadView{
			Title:       lead.Title,
			ContactName: lead.ContactName,
			Company:     lead.Company,
			Email:       lead.Email,
			Phone:       lead.Phone,
			Status:      string(lead.Status),
		}
	}
	if q == nil {
		return doc
	}

	currency := money.NormalizeCurrency(q.Currency)
	doc.Client = ClientView{
		Name:    q.Client.Name,
		Company: q.Client.Company,
		Email:   q.Client.Email,
		Phone:   q.Client.Phone,
		Address: q.Client.Address,
	}

	id := ""
	if q.ID != 0 {
		id = q.ID.String()
	}
	doc.Quotation = QuotationView{
		ID:                id,
		Number:            q.Number,
		Title:             q.Title,
		Status:            string(q.Status),
		Currency:          currency,
		IssueDate:         formatDate(q.IssueDate),
		ValidUntil:        formatDate(q.ValidUntil),
		Notes:             q.Notes,
		DiscountLabel:     discountLabel(q.DiscountType, q.DiscountValue, currency),
		TaxName:           q.TaxName,
		TaxPercentage:     money.FormatPercent(q.TaxPercentage),
		Subtotal:          money.Format(q.Subtotal, currency),
		DiscountAmount:    money.Format(q.DiscountAmount, currency),
		DiscountDeduction: money.Format(-q.DiscountAmount, currency),
		TaxableAmount:     money.Format(q.Subtotal-q.DiscountAmount, currency),
		TaxAmount:         money.Format(q.TaxAmount, currency),
		Shipping:          money.Format(q.Shipping, currency),
		Total:             money.Format(q.Total, currency),
	}

	doc.Items = make([]ItemView, 0, len(q.Items))
	for i, item := range q.Items {
		doc.Items = append(doc.Items, ItemView{
			Position:        i + 1,
			Name:            item.Name,
			Description:     item.Description,
			Quantity:        money.FormatQuantity(item.Quantity),
			UnitPrice:       money.Format(item.UnitPrice, currency),
			DiscountPercent: money.FormatPercent(item.DiscountPercent),
			TaxPercent:      money.FormatPercent(item.TaxPercent),
			Total:           money.Format(item.Total, currency),
		})
	}

	doc.Terms = make([]TermView, 0, len(q.Terms))
	for _, term := range q.Terms {
		doc.Terms = append(doc.Terms, TermView{Title: term.Title, Content: term.Content})
	}
	return doc
}

// Values flattens the document into token keys. Each dotted key such as
// company.name also has an underscore alias such as company_name.
func (d Document) Values() Values {
	values := Values{}
	put := func(group, field, value string) {
		values[group+"."+field] = value
		values[group+"_"+field] = value
	}

	put("company", "name", d.Company.Name)
	put("company", "email", d.Company.Email)
	put("company", "phone", d.Company.Phone)
	put("company", "website", d.Company.Website)
	put("company", "address", d.Company.Address)
	put("company", "tax_number", d.Company.TaxNumber)
	put("company", "logo_url", d.Company.LogoURL)

	put("client", "name", d.Client.Name)
	put("client", "company", d.Client.Company)
	put("client", "email", d.Client.Email)
	put("client", "phone", d.Client.Phone)
	put("client", "address", d.Client.Address)

	if d.Lead != nil {
		put("lead", "title", d.Lead.Title)
		put("lead", "contact_name", d.Lead.ContactName)
		put("lead", "company", d.Lead.Company)
		put("lead", "email", d.Lead.Email)
		put("lead", "phone", d.Lead.Phone)
		put("lead", "status", d.Lead.Status)
	}

	q := d.Quotation
	put("quotation", "id", q.ID)
	put("quotation", "number", q.Number)
	put("quotation", "title", q.Title)
	put("quotation", "status", q.Status)
	put("quotation", "currency", q.Currency)
	put("quotation", "issue_date", q.IssueDate)
	put("quotation", "valid_until", q.ValidUntil)
	put("quotation", "notes", q.Notes)
	put("quotation", "discount", q.DiscountLabel)
	put("quotation", "tax_name", q.TaxName)
	put("quotation", "tax_percentage", q.TaxPercentage)
	put("quotation", "subtotal", q.Subtotal)
	put("quotation", "discount_amount", q.DiscountAmount)
	put("quotation", "taxable_amount", q.TaxableAmount)
	put("quotation", "tax_amount", q.TaxAmount)
	put("quotation", "shipping", q.Shipping)
	put("quotation", "total", q.Total)

	put("items", "count", strconv.Itoa(len(d.Items)))
	return values
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(dateLayout)
}

func discountLabel(kind pricing.DiscountType, value float64, currency string) string {
	switch kind {
	case pricing.DiscountPercentage:
		return money.FormatPercent(value)
	case pricing.DiscountFixed:
		return money.Format(value, currency)
	default:
		return ""
	}
}
