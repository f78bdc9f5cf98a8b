package matrix

import (
	"fmt"

	"inventory-sync/internal/logging"
)

type EventKind string

const (
	EventPowerKeyDetected EventKind = "power_key_detected"
	EventColorKeyDetected EventKind = "color_key_detected"
	EventColorKeyFallback EventKind = "color_key_parent_name_fallback"
	EventParentSkipped    EventKind = "parent_skipped_no_power_key"
	EventVariationSkipped EventKind = "variation_skipped"
	EventMetaFallbackUsed EventKind = "attribute_meta_fallback_used"
)

// Event is one heuristic decision made while building the matrix. Handed
// to a Diagnostics sink instead of being formatted into log lines, so
// behavior stays introspectable in tests.
type Event struct {
	Kind        EventKind
	ParentID    int64
	VariationID int64
	Key         string
	Value       string
	Reason      string
}

type Diagnostics interface {
	Observe(Event)
}

type nopDiagnostics struct{}

func (nopDiagnostics) Observe(Event) {}

func NopDiagnostics() Diagnostics { return nopDiagnostics{} }

// LogDiagnostics forwards events to the shared logger as warnings for
// skips and plain info otherwise.
type LogDiagnostics struct {
	Logger logging.LoggerService
}

func (d LogDiagnostics) Observe(ev Event) {
	if d.Logger == nil {
		return
	}
	msg := fmt.Sprintf("matrix %s parent=%d variation=%d key=%s value=%q reason=%s",
		ev.Kind, ev.ParentID, ev.VariationID, ev.Key, ev.Value, ev.Reason)
	switch ev.Kind {
	case EventParentSkipped, EventVariationSkipped:
		d.Logger.LogWarning(msg)
	default:
		d.Logger.Log(msg)
	}
}
