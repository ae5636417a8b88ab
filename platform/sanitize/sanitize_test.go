package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Farmacia Central", want: "Farmacia Central"},
		{name: "tags", input: "<b>Order</b> #1042", want: "Order #1042"},
		{name: "encoded script", input: "&lt;script&gt;alert(1)&lt;/script&gt;Carlos", want: "Carlos"},
		{name: "non-breaking space", input: "Open&nbsp;24h", want: "Open 24h"},
		{name: "entities", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "whitespace", input: "  Av.\tLibertador\n 1200 ", want: "Av. Libertador 1200"},
		{name: "accents kept", input: "María González", want: "María González"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Fatalf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabels_DropsBlankValues(t *testing.T) {
	got := Labels([]string{" Norte ", "<i></i>", "", "Centro"})
	if len(got) != 2 || got[0] != "Norte" || got[1] != "Centro" {
		t.Fatalf("unexpected labels: %#v", got)
	}

	if got := Labels(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
