package controller

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/harukaze/producecore/internal/config"
	"github.com/harukaze/producecore/internal/ticklog"
)

func TestTickPublishesATelemetryEventWhenPublisherIsSet(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	hub := newCapturingHub()
	c.Session.Publisher = hub

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(hub.published) != 1 {
		t.Fatalf("expected exactly one published event, got %d", len(hub.published))
	}

	var event TickEvent
	if err := json.Unmarshal(hub.published[0], &event); err != nil {
		t.Fatalf("unmarshal published event: %v", err)
	}
	if event.Action != "main" {
		t.Errorf("expected action %q for an unknown-scene tick, got %q", "main", event.Action)
	}
}

func TestTickRecordsATickLogEntryWhenTickLogIsSet(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	path := filepath.Join(t.TempDir(), "ticks.jsonl")
	rec, err := ticklog.NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	c.Session.TickLog = rec

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := ticklog.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one recorded tick, got %d", len(entries))
	}
}

func TestTickDoesNothingWhenPublisherAndTickLogAreNil(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func TestSessionSnapshotReflectsState(t *testing.T) {
	s := NewSession(config.Default())
	s.Start()
	s.Pause.Store(true)

	snap := s.Snapshot()
	if !snap.Running {
		t.Error("expected Running true in the snapshot")
	}
	if !snap.Paused {
		t.Error("expected Paused true in the snapshot")
	}
	if snap.Mode != config.Default().Mode {
		t.Errorf("expected Mode %v, got %v", config.Default().Mode, snap.Mode)
	}
}

// capturingHub is a minimal stand-in satisfying the single method recordTick
// calls; it is not the real telemetry.Hub since that type's fields are
// unexported and only constructible via NewHub/Run, which would require a
// running goroutine this test does not need.
type capturingHub struct {
	published [][]byte
}

func newCapturingHub() *capturingHub { return &capturingHub{} }

func (h *capturingHub) Publish(msg []byte) { h.published = append(h.published, msg) }

var _ Publisher = (*capturingHub)(nil)
