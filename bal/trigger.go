package bal

import (
	"strings"

	"github.com/adhocore/gronx"
)

// TriggerType identifies how an entity is started.
type TriggerType string

const (
	TriggerManual   TriggerType = "manual"
	TriggerWebhook  TriggerType = "webhook"
	TriggerSchedule TriggerType = "schedule"
	TriggerOtherBB  TriggerType = "other_bb"
)

// TriggerConfig is the normalized trigger of an entity.
type TriggerConfig struct {
	Type             TriggerType `json:"type"`
	Schedule         string      `json:"schedule,omitempty"`
	SourceBaleybotID string      `json:"sourceBaleybotId,omitempty"`
}

// ParseTrigger normalizes a raw trigger value from an entity declaration:
// either a structured object ({"type": "schedule", "schedule": "..."}) or
// the colon-delimited string grammar
// (manual | webhook | schedule:<spec> | bb_completion:<id>).
// Unrecognized input defaults to a manual trigger; it is never an error.
func ParseTrigger(raw any) *TriggerConfig {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return parseTriggerString(v)
	case map[string]any:
		return parseTriggerObject(v)
	default:
		return &TriggerConfig{Type: TriggerManual}
	}
}

func parseTriggerString(s string) *TriggerConfig {
	switch {
	case s == "manual":
		return &TriggerConfig{Type: TriggerManual}
	case s == "webhook":
		return &TriggerConfig{Type: TriggerWebhook}
	case strings.HasPrefix(s, "schedule:"):
		return &TriggerConfig{Type: TriggerSchedule, Schedule: strings.TrimPrefix(s, "schedule:")}
	case strings.HasPrefix(s, "bb_completion:"):
		return &TriggerConfig{Type: TriggerOtherBB, SourceBaleybotID: strings.TrimPrefix(s, "bb_completion:")}
	default:
		return &TriggerConfig{Type: TriggerManual}
	}
}

func parseTriggerObject(obj map[string]any) *TriggerConfig {
	typ, _ := obj["type"].(string)
	switch TriggerType(typ) {
	case TriggerWebhook:
		return &TriggerConfig{Type: TriggerWebhook}
	case TriggerSchedule:
		schedule, _ := obj["schedule"].(string)
		return &TriggerConfig{Type: TriggerSchedule, Schedule: schedule}
	case TriggerOtherBB:
		source, _ := obj["sourceBaleybotId"].(string)
		if source == "" {
			source, _ = obj["source_baleybot_id"].(string)
		}
		return &TriggerConfig{Type: TriggerOtherBB, SourceBaleybotID: source}
	default:
		return &TriggerConfig{Type: TriggerManual}
	}
}

// ValidateSchedule reports whether a schedule trigger carries a valid
// cron expression. Soft diagnostic only: an invalid spec never fails a
// parse, callers surface it as a warning.
func ValidateSchedule(t *TriggerConfig) bool {
	if t == nil || t.Type != TriggerSchedule {
		return true
	}
	return gronx.New().IsValid(t.Schedule)
}
