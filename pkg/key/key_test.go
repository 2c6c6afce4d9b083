package key

import "testing"

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Key
	}{
		{"ascii", "Hello World", "h_b10a8db164e0"},
		{"chinese", "点击", "h_4363c17ebb34"},
		{"format verb", "Welcome, %s!", "h_f9fedffe7901"},
		{"embedded newline", "line one\nline two", "h_a8e259530e14"},
		{"embedded quotes", `he said "hi"`, "h_cfb8878d8810"},
		{"empty", "", "h_d41d8cd98f00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.text); got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeriveStable(t *testing.T) {
	want := Derive("旧文案")
	if want != "h_c08b30839163" {
		t.Fatalf("Derive(旧文案) = %q, want h_c08b30839163", want)
	}
	for i := 0; i < 100; i++ {
		if got := Derive("旧文案"); got != want {
			t.Fatalf("Derive unstable on call %d: got %q, want %q", i, got, want)
		}
	}
}

func TestDeriveDistinguishesTexts(t *testing.T) {
	if Derive("旧文案") == Derive("新文案") {
		t.Error("distinct texts produced the same key")
	}
}
