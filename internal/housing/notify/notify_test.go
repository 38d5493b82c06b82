package notify

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/registry"
)

func TestManualRunsDueTasksInOrder(t *testing.T) {
	var m Manual
	var got []int
	m.AfterFunc(3*time.Second, func() { got = append(got, 3) })
	m.AfterFunc(1*time.Second, func() { got = append(got, 1) })
	stopped := m.AfterFunc(2*time.Second, func() { got = append(got, 2) })
	if !stopped.Stop() {
		t.Fatalf("first Stop should report true")
	}
	if stopped.Stop() {
		t.Fatalf("second Stop should report false")
	}

	m.Advance(2 * time.Second)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("after 2s: %v", got)
	}
	m.Advance(time.Second)
	if len(got) != 2 || got[1] != 3 {
		t.Fatalf("after 3s: %v", got)
	}
	if m.Pending() != 0 {
		t.Fatalf("pending: %d", m.Pending())
	}
}

func TestManualCallbackMayReschedule(t *testing.T) {
	var m Manual
	n := 0
	var tick func()
	tick = func() {
		n++
		if n < 3 {
			m.AfterFunc(time.Second, tick)
		}
	}
	m.AfterFunc(time.Second, tick)
	m.Advance(10 * time.Second)
	if n != 3 {
		t.Fatalf("ticks: %d", n)
	}
}

func TestExplainSize(t *testing.T) {
	err := &registry.SizeError{
		Bound:  geometry.BoundMin,
		Limits: geometry.SizeLimits{Width: 5, Height: 5, TotalTiles: 30},
		Area:   geometry.Rect{Width: 4, Height: 8},
	}
	got := Explain(fmt.Errorf("wrapped: %w", err), config.Defaults())
	if len(got) != 4 || !strings.Contains(got[0].Text, "too small") {
		t.Fatalf("unexpected notices: %+v", got)
	}
	if got[1].Text != "Min width: 5 (you've tried to set 4)." || got[3].Text != "Min total blocks: 30 (you've tried to set 32)." {
		t.Fatalf("unexpected lines: %+v", got)
	}
}

func TestExplainOverlapMentionsForeignRegionsOnlyWhenDisallowed(t *testing.T) {
	cfg := config.Defaults()
	if got := Explain(registry.ErrOverlap, cfg); len(got) != 2 {
		t.Fatalf("disallowed foreign overlap: %+v", got)
	}
	cfg.AllowForeignOverlap = true
	if got := Explain(registry.ErrOverlap, cfg); len(got) != 1 {
		t.Fatalf("allowed foreign overlap: %+v", got)
	}
}

func TestExplainLimitAndUnknown(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxHousesPerUser = 2
	got := Explain(registry.ErrLimitExceeded, cfg)
	if len(got) != 1 || !strings.Contains(got[0].Text, "maximum of 2 houses") {
		t.Fatalf("limit: %+v", got)
	}
	got = Explain(errors.New("disk on fire"), cfg)
	if len(got) != 1 || got[0].Kind != KindError || strings.Contains(got[0].Text, "disk") {
		t.Fatalf("unknown errors must not leak details: %+v", got)
	}
}
