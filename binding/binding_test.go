package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["x","y"]},"grid":[[1,2],[3,4]]}`)
	cases := []struct{ in, want string }{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${ user.tags[1] }", "y"},
		{"${grid[1][0]}", "3"},
		{"${user.missing}", "${user.missing}"},
		{"${user.tags[9]}", "${user.tags[9]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data must keep placeholder, got %q", got)
	}
}
