package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{Regular, "embed:bold", "Italic", BoldItalic} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("font %s is empty", name)
		}
	}
	if _, err := Load("comic-sans"); err == nil {
		t.Fatalf("unknown font should fail")
	}
}

func TestNameFor(t *testing.T) {
	cases := []struct {
		bold, italic bool
		want         string
	}{
		{false, false, Regular},
		{true, false, Bold},
		{false, true, Italic},
		{true, true, BoldItalic},
	}
	for _, tc := range cases {
		if got := NameFor(tc.bold, tc.italic); got != tc.want {
			t.Fatalf("NameFor(%t, %t) = %s, want %s", tc.bold, tc.italic, got, tc.want)
		}
	}
}
