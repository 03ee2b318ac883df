package domain

const classicHeader = `<div class="quotation-header">
  <div class="quotation-brand">
    <h1>{{company.name}}</h1>
    <div>{{company.address}}</div>
    <div>{{company.email}} · {{company.phone}}</div>
  </div>
  <div class="quotation-meta">
    <div class="quotation-label">Quotation</div>
    <div><strong>{{quotation.number}}</strong></div>
    <div>Issued: {{quotation.issue_date}}</div>
    <div>Valid until: {{quotation.valid_until}}</div>
  </div>
</div>`

const classicFooter = `<div class="quotation-footer">
  <div>{{quotation.notes}}</div>
  <div>{{company.name}} · {{company.website}} · Tax No. {{company.tax_number}}</div>
</div>`

const modernHeader = `<div class="quotation-header quotation-header-modern">
  <div class="quotation-brand">
    <h1>{{company_name}}</h1>
    <div>Prepared for {{client_name}}, {{client_company}}</div>
  </div>
  <div class="quotation-meta">
    <div class="quotation-label">{{quotation.title}}</div>
    <div>{{quotation.number}} · {{quotation.issue_date}}</div>
    <div class="quotation-total">{{quotation.total}}</div>
  </div>
</div>`

const modernFooter = `<div class="quotation-footer">
  <div>Questions? Contact {{company_email}} or {{company_phone}}.</div>
</div>`

const minimalHeader = `<div class="quotation-header">
  <strong>{{company.name}}</strong> · Quotation {{quotation.number}} · {{quotation.issue_date}}
</div>`

const acceptanceContent = `<div class="quotation-acceptance">
  <p>Accepted on behalf of {{client.company}}:</p>
  <p>Name: ____________________ Signature: ____________________ Date: __________</p>
</div>`

// Prebuilt returns the templates installed for every new organization.
// The first entry becomes the default.
func Prebuilt() []CreateRequest {
	return []CreateRequest{
		{
			Name:        "Classic",
			Description: "Company block on the left, document details on the right.",
			Header:      classicHeader,
			Footer:      classicFooter,
			Sections: []Section{
				{ID: "client", Type: SectionClientInfo, Title: "Bill To", Order: 1, IsVisible: true},
				{ID: "items", Type: SectionItemsTable, Title: "Items", Order: 2, IsVisible: true},
				{ID: "summary", Type: SectionSummary, Title: "Summary", Order: 3, IsVisible: true},
				{ID: "terms", Type: SectionTerms, Title: "Terms & Conditions", Order: 4, IsVisible: true},
			},
			Styles: Styles{PrimaryColor: "#1F2937", FontFamily: "Inter", FontSize: 14},
		},
		{
			Name:        "Modern",
			Description: "Accent color header with the grand total up front.",
			Header:      modernHeader,
			Footer:      modernFooter,
			Sections: []Section{
				{ID: "items", Type: SectionItemsTable, Title: "Scope & Pricing", Order: 1, IsVisible: true},
				{ID: "summary", Type: SectionSummary, Title: "Totals", Order: 2, IsVisible: true},
				{ID: "client", Type: SectionClientInfo, Title: "Client", Order: 3, IsVisible: true},
				{ID: "terms", Type: SectionTerms, Title: "Terms", Order: 4, IsVisible: true},
				{ID: "acceptance", Type: "acceptance", Title: "Acceptance", Order: 5, IsVisible: true, Content: acceptanceContent},
			},
			Styles: Styles{
				PrimaryColor: "#2563EB",
				FontFamily:   "Space Grotesk",
				FontSize:     13,
				CustomCSS:    ".quotation-header-modern { background: var(--primary); color: #ffffff; padding: 24px; }",
			},
		},
		{
			Name:        "Minimal",
			Description: "Single-line header, items and totals only.",
			Header:      minimalHeader,
			Sections: []Section{
				{ID: "items", Type: SectionItemsTable, Title: "Items", Order: 1, IsVisible: true},
				{ID: "summary", Type: SectionSummary, Title: "Total", Order: 2, IsVisible: true},
				{ID: "client", Type: SectionClientInfo, Title: "Client", Order: 3, IsVisible: false},
				{ID: "terms", Type: SectionTerms, Title: "Terms", Order: 4, IsVisible: false},
			},
			Styles: Styles{PrimaryColor: "#111827", FontFamily: "Helvetica", FontSize: 12},
		},
	}
}
