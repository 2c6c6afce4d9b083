package interpolation

import (
	"reflect"
	"testing"
)

func TestVars(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text", nil},
		{"named", "Hello ${name}!", []string{"${name}"}},
		{"indexed", "{0} of {1}", []string{"{0}", "{1}"}},
		{"format verbs", "Total: %d items (%s)", []string{"%d", "%s"}},
		{"width verb", "%2d%%", []string{"%2d"}},
		{"mixed", "${user} has %d new", []string{"${user}", "%d"}},
		{"escaped percent only", "100%% done", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Vars(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Vars(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "%s of %d", "%s of %d", true},
		{"reordered", "%s 共 %d 项", "%d items for %s", true},
		{"missing token", "Hello ${name}", "Xin chào", false},
		{"extra token", "Save", "Lưu %s", false},
		{"no tokens", "Save", "Lưu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name string
		text string
		args []any
		want string
	}{
		{"no tokens", "plain", []any{"x"}, "plain"},
		{"string verb", "Welcome, %s!", []any{"Mai"}, "Welcome, Mai!"},
		{"int verb", "Total: %d items", []any{3}, "Total: 3 items"},
		{"named token", "Hello ${name}!", []any{"An"}, "Hello An!"},
		{"indexed tokens", "{0} → {1}", []any{"a", "b"}, "a → b"},
		{"escaped percent", "50%% of %d", []any{4}, "50% of 4"},
		{"missing args keep token", "%s and %s", []any{"one"}, "one and %s"},
		{"no args", "%s items", nil, "%s items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.text, tt.args...); got != tt.want {
				t.Errorf("Fill(%q, %v) = %q, want %q", tt.text, tt.args, got, tt.want)
			}
		})
	}
}
