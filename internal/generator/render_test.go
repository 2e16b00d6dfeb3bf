package generator

import "testing"

func TestRender(t *testing.T) {
	params := NewParams(map[string]any{
		"name":  "Ann",
		"year":  2024.0,
		"flag":  true,
		"loop":  "{{ name }}",
		"empty": "",
	})

	cases := []struct {
		template string
		want     string
	}{
		{"Hi {{ name }}!", "Hi Ann!"},
		{"Hi {{name}}!", "Hi Ann!"},
		{"Hi {{\tname \n}}!", "Hi Ann!"},
		{"Hi {{ missing }}!", "Hi {{ missing }}!"},
		{"{{ year }} {{ flag }}", "2024 true"},
		{"{{ loop }}", "{{ name }}"},
		{"[{{ empty }}]", "[]"},
		{"{{ }}", "{{ }}"},
		{"{{ name", "{{ name"},
		{"{{ two words }}", "{{ two words }}"},
		{"{{{ name }}", "{Ann"},
		{"no placeholders", "no placeholders"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Render(tc.template, params); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.template, got, tc.want)
		}
	}
}

func TestRenderWithoutParams(t *testing.T) {
	if got := Render("Hi {{ name }}!", Params{}); got != "Hi {{ name }}!" {
		t.Fatalf("expected placeholder to survive, got %q", got)
	}
}
