package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"warbler/internal/metrics"
)

// Activity event kinds. They double as AMQP routing keys and metric labels.
const (
	EventUserSignedUp   = "user.signed_up"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
	EventLoginFailed    = "auth.login_failed"
	EventMessageCreated = "message.created"
	EventMessageDeleted = "message.deleted"
	EventUserFollowed   = "user.followed"
	EventUserUnfollowed = "user.unfollowed"
	EventMessageLiked   = "message.liked"
	EventMessageUnliked = "message.unliked"
)

// EventPublisher sends an encoded event to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Event is the payload published for every completed action.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   uint      `json:"actor_id"`
	SubjectID uint      `json:"subject_id,omitempty"`
	At        time.Time `json:"at"`
}

// Activity fans completed actions out to metrics and, when configured, the broker.
// A nil *Activity is valid and does nothing.
type Activity struct {
	publisher EventPublisher
	recorder  metrics.Recorder
}

// NewActivity creates an Activity. Either argument may be nil.
func NewActivity(publisher EventPublisher, recorder metrics.Recorder) *Activity {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Activity{publisher: publisher, recorder: recorder}
}

// Emit records an action. Publishing failures are logged and otherwise ignored.
func (a *Activity) Emit(kind string, actorID, subjectID uint) {
	if a == nil {
		return
	}
	a.recorder.RecordActivity(kind)

	if a.publisher == nil {
		return
	}
	body, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", kind, err)
		return
	}
	if err := a.publisher.Publish("", kind, body); err != nil {
		log.Printf("Warning: failed to publish %s event for user %d: %v", kind, actorID, err)
	}
}
