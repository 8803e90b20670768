package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ByLCY/designcanvas/design"
)

const grad = "linear-gradient(to right, #ff0000, #0000ff)"

func background(css string) design.Element {
	return design.Element{ID: "bg", Kind: design.KindBackground, Style: design.BackgroundStyle{Background: css}}
}

func waitAll(t *testing.T, c *Cache) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
}

func countingLoader(calls *int32) Loader {
	return LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		atomic.AddInt32(calls, 1)
		if src == "broken.png" {
			return nil, errors.New("boom")
		}
		return image.NewNRGBA(image.Rect(0, 0, 4, 4)), nil
	})
}

func TestSources(t *testing.T) {
	els := design.List{
		background(grad),
		{ID: "bg2", Kind: design.KindBackground, Style: design.BackgroundStyle{BackgroundImage: "tex.png", Background: "#fff"}},
		{ID: "img", Kind: design.KindImage, Content: "a.png"},
		{ID: "img2", Kind: design.KindImage, Src: "a.png"},
		{ID: "txt", Kind: design.KindText, Content: "b.png"},
	}
	got := Sources(els)
	want := []string{GradientKey(grad), "tex.png", "a.png"}
	if len(got) != len(want) {
		t.Fatalf("sources=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sources=%v want %v", got, want)
		}
	}
}

func TestGradientIdempotent(t *testing.T) {
	c := New(400)
	els := design.List{background(grad)}
	c.Ensure(els)
	waitAll(t, c)
	first, ok := c.Get(GradientKey(grad))
	if !ok || first == nil {
		t.Fatalf("gradient not cached")
	}
	c.Ensure(els)
	waitAll(t, c)
	second, _ := c.Get(GradientKey(grad))
	if first != second {
		t.Fatalf("second ensure should reuse the cached image")
	}
}

func TestStageWidthInvalidatesGradientsOnly(t *testing.T) {
	var calls int32
	c := New(400, WithLoader(countingLoader(&calls)))
	els := design.List{background(grad), {ID: "img", Kind: design.KindImage, Src: "a.png"}}
	c.Ensure(els)
	waitAll(t, c)
	before := c.Image(GradientKey(grad))
	photo := c.Image("a.png")

	c.SetStageWidth(600)
	waitAll(t, c)
	after := c.Image(GradientKey(grad))
	if after == nil || after == before {
		t.Fatalf("gradient should be resynthesized after width change")
	}
	if after.Bounds().Dx() != 600 {
		t.Fatalf("new gradient width=%d want 600", after.Bounds().Dx())
	}
	if c.Image("a.png") != photo || atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("url entries must survive width changes (calls=%d)", calls)
	}
}

func TestFailedLoadCachedAsNil(t *testing.T) {
	var calls int32
	c := New(400, WithLoader(countingLoader(&calls)))
	els := design.List{{ID: "img", Kind: design.KindImage, Src: "broken.png"}}
	c.Ensure(els)
	waitAll(t, c)
	img, ok := c.Get("broken.png")
	if !ok || img != nil {
		t.Fatalf("failed load should be cached as nil, got %v %v", img, ok)
	}
	c.Ensure(els)
	waitAll(t, c)
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("failed load should not be retried, calls=%d", calls)
	}
}

func TestMalformedGradientCachedAsNil(t *testing.T) {
	c := New(400)
	css := "linear-gradient(nope, alsonope)"
	c.Ensure(design.List{background(css)})
	waitAll(t, c)
	if img, ok := c.Get(GradientKey(css)); !ok || img != nil {
		t.Fatalf("malformed gradient should be a nil entry")
	}
}

func TestOnUpdateFires(t *testing.T) {
	c := New(400)
	got := make(chan string, 1)
	c.OnUpdate(func(key string) { got <- key })
	c.Ensure(design.List{background(grad)})
	select {
	case key := <-got:
		if key != GradientKey(grad) {
			t.Fatalf("unexpected key %q", key)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("update callback not fired")
	}
}

func TestSourceLoaderHTTP(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	c := New(400, WithLoader(&SourceLoader{Client: srv.Client()}))
	err := c.Preload(context.Background(), design.List{
		{ID: "a", Kind: design.KindImage, Src: srv.URL + "/ok.png"},
		{ID: "b", Kind: design.KindImage, Src: srv.URL + "/missing.png"},
	})
	if err != nil {
		t.Fatalf("preload failed: %v", err)
	}
	ok := c.Image(srv.URL + "/ok.png")
	if ok == nil || ok.Bounds().Dx() != 3 || ok.Bounds().Dy() != 2 {
		t.Fatalf("expected decoded 3x2 image, got %v", ok)
	}
	if missing, done := c.Get(srv.URL + "/missing.png"); !done || missing != nil {
		t.Fatalf("404 should be cached as nil")
	}
}

func TestSourceLoaderRejectsUnknownScheme(t *testing.T) {
	_, err := NewSourceLoader("").Load(context.Background(), "ftp://example.com/a.png")
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
}
