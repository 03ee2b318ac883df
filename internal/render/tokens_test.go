package render

import "testing"

func TestSubstitute(t *testing.T) {
	values := Values{
		"company_name":   "Acme",
		"company.name":   "Acme",
		"client.name":    "Jane",
		"quotation.note": "{{company_name}}",
	}

	cases := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "flat alias", markup: "Hello {{company_name}}", want: "Hello Acme"},
		{name: "dotted path", markup: "<h1>{{company.name}}</h1>", want: "<h1>Acme</h1>"},
		{name: "inner spaces", markup: "Dear {{ client.name }},", want: "Dear Jane,"},
		{name: "unresolved kept literal", markup: "Ref {{unknown_field}}", want: "Ref {{unknown_field}}"},
		{name: "unterminated kept", markup: "Hello {{company_name", want: "Hello {{company_name"},
		{name: "invalid key kept", markup: "{{ a b }}", want: "{{ a b }}"},
		{name: "no tokens", markup: "plain", want: "plain"},
		{name: "single pass", markup: "{{quotation.note}}", want: "{{company_name}}"},
		{name: "repeated", markup: "{{company_name}}/{{company_name}}", want: "Acme/Acme"},
		{name: "stray open before token", markup: "Use {{ carefully. Hello {{company_name}}", want: "Use {{ carefully. Hello Acme"},
		{name: "triple braces", markup: "{{{company_name}}}", want: "{Acme}"},
		{name: "stray open between tokens", markup: "{{client.name}} {{ x {{company.name}}", want: "Jane {{ x Acme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Substitute(tc.markup, values); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValuesEscaped(t *testing.T) {
	escaped := Values{"client.name": `Tom & "Jerry" <Co>`}.Escaped()
	want := "Tom &amp; &#34;Jerry&#34; &lt;Co&gt;"
	if got := escaped["client.name"]; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("{{company.name}} {{ client.name }} {{company.name}} {{bad key}}")
	if len(got) != 2 || got[0] != "company.name" || got[1] != "client.name" {
		t.Fatalf("unexpected tokens %v", got)
	}

	got = Tokens("Use {{ carefully {{client.name}}")
	if len(got) != 1 || got[0] != "client.name" {
		t.Fatalf("expected token after stray braces, got %v", got)
	}
}
