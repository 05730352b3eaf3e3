package mission

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/nextlevel/reward-engine/pkg/enum"
)

// Trigger is an event reported by a surrounding workflow. Each kind carries
// only its own fields.
type Trigger interface {
	Kind() TriggerKind

	// Participant is the user whose mission is affected.
	Participant() string
}

type CommentAdded struct {
	UserID string `json:"user_id" mapstructure:"user_id"`
}

func (CommentAdded) Kind() TriggerKind      { return CommentAddedKind }
func (t CommentAdded) Participant() string { return t.UserID }

type ActivityZoneCompleted struct {
	UserID string `json:"user_id" mapstructure:"user_id"`
}

func (ActivityZoneCompleted) Kind() TriggerKind      { return ActivityZoneCompletedKind }
func (t ActivityZoneCompleted) Participant() string { return t.UserID }

// BoothVisitorCountChanged reports the absolute visitor count of a booth.
// It affects the booth owner, not the visitor.
type BoothVisitorCountChanged struct {
	BoothID      string `json:"booth_id" mapstructure:"booth_id"`
	OwnerID      string `json:"owner_id" mapstructure:"owner_id"`
	VisitorCount int    `json:"visitor_count" mapstructure:"visitor_count"`
}

func (BoothVisitorCountChanged) Kind() TriggerKind      { return BoothVisitorCountKind }
func (t BoothVisitorCountChanged) Participant() string { return t.OwnerID }

// DrawAttempted reports how many draws the user has taken so far.
type DrawAttempted struct {
	UserID       string `json:"user_id" mapstructure:"user_id"`
	AttemptCount int    `json:"attempt_count" mapstructure:"attempt_count"`
}

func (DrawAttempted) Kind() TriggerKind      { return DrawAttemptedKind }
func (t DrawAttempted) Participant() string { return t.UserID }

// ReviewCountChanged reports the cumulative number of reviews of the user.
type ReviewCountChanged struct {
	UserID      string `json:"user_id" mapstructure:"user_id"`
	ReviewCount int    `json:"review_count" mapstructure:"review_count"`
}

func (ReviewCountChanged) Kind() TriggerKind      { return ReviewCountKind }
func (t ReviewCountChanged) Participant() string { return t.UserID }

// DecodeTrigger builds the typed trigger of the given kind from a loosely
// typed payload, as received from the message queue.
func DecodeTrigger(kind string, data map[string]any) (Trigger, error) {
	k, err := enum.ToEnum[TriggerKind](kind)
	if err != nil {
		return nil, err
	}

	var trigger Trigger
	switch k {
	case CommentAddedKind:
		trigger = &CommentAdded{}
	case ActivityZoneCompletedKind:
		trigger = &ActivityZoneCompleted{}
	case BoothVisitorCountKind:
		trigger = &BoothVisitorCountChanged{}
	case DrawAttemptedKind:
		trigger = &DrawAttempted{}
	case ReviewCountKind:
		trigger = &ReviewCountChanged{}
	default:
		return nil, fmt.Errorf("unsupported trigger kind %s", kind)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           trigger,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, err
	}

	if trigger.Participant() == "" {
		return nil, fmt.Errorf("missing participant of trigger %s", kind)
	}

	return deref(trigger), nil
}

func deref(t Trigger) Trigger {
	switch v := t.(type) {
	case *CommentAdded:
		return *v
	case *ActivityZoneCompleted:
		return *v
	case *BoothVisitorCountChanged:
		return *v
	case *DrawAttempted:
		return *v
	case *ReviewCountChanged:
		return *v
	}

	return t
}
