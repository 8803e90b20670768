package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/designcanvas/design"
	"github.com/ByLCY/designcanvas/geometry"
	"github.com/ByLCY/designcanvas/studio"
)

func TestParseCommentFlag(t *testing.T) {
	c, err := parseCommentFlag("50, 20: 日期再确认一下")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.at != (geometry.Point{X: 50, Y: 20}) || c.text != "日期再确认一下" {
		t.Fatalf("unexpected comment flag %+v", c)
	}
	if c, err := parseCommentFlag("150,-3:x"); err != nil || c.at != (geometry.Point{X: 100, Y: 0}) {
		t.Fatalf("position should clamp to the stage, got %+v err=%v", c, err)
	}
	for _, bad := range []string{"50,20", "50:x", "a,20:x", "50,b:x"} {
		if _, err := parseCommentFlag(bad); err == nil {
			t.Fatalf("%q should fail", bad)
		}
	}
}

func TestPlaceCommentPersistsOnChange(t *testing.T) {
	out := filepath.Join(t.TempDir(), "comments.json")
	s := studio.NewSession(design.Document{})
	s.OnChange(func() {
		if err := writeJSON(out, s.Comments()); err != nil {
			t.Errorf("write comments: %v", err)
		}
	})
	c := studio.New(s, studio.WithAuthor(design.Author{ID: "cli", Name: "Ana"}))
	defer c.Close()

	if err := placeComment(c, commentFlag{at: geometry.Point{X: 50, Y: 20}, text: "check date"}); err != nil {
		t.Fatalf("place comment: %v", err)
	}
	comments := s.Comments()
	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
	cm := comments[0]
	if cm.Content != "check date" || cm.UserID != "cli" || cm.UserName != "Ana" {
		t.Fatalf("unexpected comment %+v", cm)
	}
	if math.Abs(cm.Position.X-50) > 1e-9 || math.Abs(cm.Position.Y-20) > 1e-9 {
		t.Fatalf("comment should sit at (50,20), got %+v", cm.Position)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("comments file not written: %v", err)
	}
	var saved []design.Comment
	if err := json.Unmarshal(data, &saved); err != nil || len(saved) != 1 || saved[0].ID != cm.ID {
		t.Fatalf("saved comments mismatch: %s err=%v", data, err)
	}
}

func TestPlaceBlankCommentFails(t *testing.T) {
	s := studio.NewSession(design.Document{})
	c := studio.New(s)
	defer c.Close()
	if err := placeComment(c, commentFlag{text: "  "}); err == nil {
		t.Fatalf("blank comment should fail")
	}
	if _, pending := c.PendingComment(); pending {
		t.Fatalf("failed placement should leave comment mode")
	}
	if len(s.Comments()) != 0 {
		t.Fatalf("blank comment must not be stored")
	}
}
