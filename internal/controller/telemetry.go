package controller

import (
	"encoding/json"
	"log"
	"time"

	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/ticklog"
	"github.com/harukaze/producecore/internal/vision"
)

// TickEvent is the JSON shape published to telemetry.Hub subscribers: one
// (Seq, Timestamp, Scene, Action, SessionSnapshot) record per tick; no
// screenshot is included.
type TickEvent struct {
	Seq       uint64          `json:"seq"`
	Timestamp time.Time       `json:"timestamp"`
	Scene     string          `json:"scene"`
	Action    string          `json:"action"`
	Session   SessionSnapshot `json:"session"`
}

// recordTick publishes and logs the tuple for one completed tick. Both the
// Publisher and the TickLog are optional; a nil one is simply skipped.
func (c *Controller) recordTick(shot vision.Screenshot, sc scene.Scene, action string) {
	now := c.Now()

	if c.Session.Publisher != nil {
		event := TickEvent{
			Seq:       shot.Seq,
			Timestamp: now,
			Scene:     sc.Type.String(),
			Action:    action,
			Session:   c.Session.Snapshot(),
		}
		b, err := json.Marshal(event)
		if err != nil {
			log.Printf("[controller] telemetry marshal failed: %v", err)
		} else {
			c.Session.Publisher.Publish(b)
		}
	}

	if c.Session.TickLog != nil {
		entry := ticklog.Entry{
			Seq:       shot.Seq,
			Timestamp: now,
			Scene:     sc.Type.String(),
			Action:    action,
		}
		if err := c.Session.TickLog.Write(entry); err != nil {
			log.Printf("[controller] ticklog write failed: %v", err)
		}
	}
}
