package notify_test

import (
	"testing"
	"time"

	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/housing/notify/notifytest"
)

func TestPreviewerHidesAfterDelay(t *testing.T) {
	var rec notifytest.Recording
	var m notify.Manual
	v := notify.NewPreviewer(&rec, &m)
	a := geometry.Rect{X: 1, Y: 1, Width: 4, Height: 4}
	b := geometry.Rect{X: 9, Y: 9, Width: 2, Height: 2}

	v.Show("p1", 5*time.Second, a, b)
	if rec.Count("outline") != 2 || v.Pending("p1") != 1 {
		t.Fatalf("show: calls=%v pending=%d", rec.Calls(), v.Pending("p1"))
	}
	m.Advance(4 * time.Second)
	if rec.Count("restore_area") != 0 {
		t.Fatalf("hidden too early")
	}
	m.Advance(time.Second)
	if rec.Count("restore_area") != 2 || v.Pending("p1") != 0 {
		t.Fatalf("not hidden: %v", rec.Calls())
	}
}

func TestPreviewerCancelAllSkipsHide(t *testing.T) {
	var rec notifytest.Recording
	var m notify.Manual
	v := notify.NewPreviewer(&rec, &m)
	v.Show("p1", time.Second, geometry.Rect{Width: 3, Height: 3})
	v.Show("p2", time.Second, geometry.Rect{Width: 3, Height: 3})

	v.CancelAll("p1")
	m.Advance(time.Minute)
	for _, c := range rec.Calls() {
		if c.Op == "restore_area" && c.Player == "p1" {
			t.Fatalf("hide ran for a disconnected player")
		}
	}
	if rec.Count("restore_area") != 1 {
		t.Fatalf("p2 preview should still hide: %v", rec.Calls())
	}
	if m.Pending() != 0 {
		t.Fatalf("cancelled task left pending")
	}
}
