package eventhub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nextlevel/reward-engine/internal/domain"
	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/pkg/pubsub"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
)

// TriggerMessage is the payload on the trigger topic. Data holds the fields
// of the trigger named by Kind.
type TriggerMessage struct {
	Kind string         `json:"kind"`
	Data map[string]any `json:"data"`
}

type TriggerSubscriber struct {
	eventDomain domain.EventDomain
}

func NewTriggerSubscriber(eventDomain domain.EventDomain) *TriggerSubscriber {
	return &TriggerSubscriber{eventDomain: eventDomain}
}

// Subscribe handles one message of the trigger topic. A malformed message is
// logged and dropped, it will never become valid on redelivery.
func (s *TriggerSubscriber) Subscribe(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) {
	var msg TriggerMessage
	if err := json.Unmarshal(pack.Msg, &msg); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal message of topic %s: %v", topic, err)
		return
	}

	trigger, err := mission.DecodeTrigger(msg.Kind, msg.Data)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Invalid trigger on topic %s: %v", topic, err)
		return
	}

	xcontext.Logger(ctx).Debugf("Received trigger %s of %s produced at %s",
		trigger.Kind(), trigger.Participant(), t.Format(time.RFC3339))
	s.eventDomain.Fire(ctx, trigger)
}
