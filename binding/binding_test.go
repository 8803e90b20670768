package binding

import (
	"encoding/json"
	"testing"

	"github.com/ByLCY/designcanvas/design"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"event":{"title":"Launch Party","guests":[{"name":"Ann"}],"year":2025}}`)
	cases := map[string]string{
		"${event.title}":               "Launch Party",
		"Hi ${event.guests[0].name}!":  "Hi Ann!",
		"© ${event.year}":              "© 2025",
		"${event.venue|TBA}":           "TBA",
		"${event.missing}":             "${event.missing}",
		"no placeholders":              "no placeholders",
		"${event.guests[3].name|none}": "none",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q)=%q want %q", in, got, want)
		}
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestBindOnlyTouchesTextAndImages(t *testing.T) {
	data := decode(t, `{"title":"Hello","img":"cover.png"}`)
	els := design.List{
		{ID: "t", Kind: design.KindText, Content: "${title}"},
		{ID: "i", Kind: design.KindImage, Src: "${img}"},
		{ID: "s", Kind: design.KindShape, Content: "${title}"},
	}
	out := Bind(els, data)
	if out[0].Content != "Hello" || out[1].Src != "cover.png" || out[2].Content != "${title}" {
		t.Fatalf("unexpected binding result: %+v", out)
	}
	if els[0].Content != "${title}" {
		t.Fatalf("input list must not be mutated")
	}
}
