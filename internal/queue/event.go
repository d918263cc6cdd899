// Package queue defines message payloads exchanged over the message broker
// and the publisher and consumer that move them.
package queue

import "time"

// Queue names.  Each event type travels on its own durable queue through
// the default exchange.
const (
    QueueBadgeAuthorized = "badge.authorized"
    QueueBadgeRevoked    = "badge.revoked"
    QueueDoorAdded       = "door.added"
    QueueAccessRecorded  = "access.recorded"
)

// BadgeAuthorizedEvent is published after a badge has been linked to a
// personnel record.  The worker writes it to the audit trail.
type BadgeAuthorizedEvent struct {
    UID          string    `json:"uid"`
    PersonnelID  string    `json:"personnel_id"`
    Name         string    `json:"name"`
    Zones        []string  `json:"zones"`
    AuthorizedAt time.Time `json:"authorized_at"`
}

// BadgeRevokedEvent is published whenever a badge row is deleted: an
// explicit revocation, a person getting a new badge, or the holder's
// personnel record being removed.
type BadgeRevokedEvent struct {
    UID       string    `json:"uid"`
    RevokedAt time.Time `json:"revoked_at"`
}

// DoorAddedEvent is published when a door is created or reset from the
// dashboard.
type DoorAddedEvent struct {
    Name    string    `json:"name"`
    Status  string    `json:"status"`
    AddedAt time.Time `json:"added_at"`
}

// AccessRecordedEvent is one badge scan reported by a door controller.  The
// worker turns it into an access log entry.
type AccessRecordedEvent struct {
    UID      string    `json:"uid"`
    User     string    `json:"user"`
    Result   string    `json:"result"`
    Location string    `json:"location"`
    Time     time.Time `json:"time"`
    Device   string    `json:"device,omitempty"`
}
