package entity

import "time"

// User lifecycle event types published to the events queue.
const (
	EventUserRegistered      = "user.registered"
	EventUserUpdated         = "user.updated"
	EventUserBusinessToggled = "user.business_toggled"
	EventUserRoleChanged     = "user.role_changed"
	EventUserDeleted         = "user.deleted"
)

// UserEvent is the JSON payload put on the events queue.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsAdmin    bool      `json:"is_admin"`
	IsBusiness bool      `json:"is_business"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserEvent(eventType string, u *User, actorID string) UserEvent {
	return UserEvent{
		Type:       eventType,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name.Full(),
		IsAdmin:    u.IsAdmin,
		IsBusiness: u.IsBusiness,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
