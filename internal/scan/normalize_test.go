package scan

import "testing"

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name  string
		label string
		value string
		want  string
	}{
		{"email_lowercased", "Email", "Jane.Doe@Example.COM", "jane.doe@example.com"},
		{"phone_ten_digits_grouped", "Phone", "555-123-4567", "(555) 123-4567"},
		{"phone_with_punctuation", "Phone", "(555) 123.4567", "(555) 123-4567"},
		{"phone_international_untouched", "Phone", "+44 20 7946 0958", "+442079460958"},
		{"website_scheme_added", "Website", "example.com", "https://example.com"},
		{"website_scheme_kept", "Website", "http://example.com", "http://example.com"},
		{"linkedin_handle_completed", "LinkedIn", "@janedoe", "https://linkedin.com/in/janedoe"},
		{"linkedin_url_passthrough", "LinkedIn", "https://linkedin.com/in/janedoe", "https://linkedin.com/in/janedoe"},
		{"twitter_handle_completed", "Twitter", "janedoe", "https://twitter.com/janedoe"},
		{"name_title_cased", "Name", "jane doe", "Jane Doe"},
		{"company_title_cased", "Company", "acme corp", "Acme Corp"},
		{"unknown_label_trimmed_only", "Tagline", "  building things  ", "building things"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeValue(tc.label, tc.value); got != tc.want {
				t.Fatalf("NormalizeValue(%q, %q) = %q, want %q", tc.label, tc.value, got, tc.want)
			}
		})
	}
}
