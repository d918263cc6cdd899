package model

import "time"

// Door statuses as reported by the door controllers.
const (
    DoorClosed = "Gesloten"
    DoorOpen   = "Open"
)

// Door is a row in `doors`, keyed by door name.
type Door struct {
    Name       string    // doors.name
    Status     string    // doors.status (Gesloten | Open)
    LastUpdate time.Time // doors.last_update
}

// ValidDoorStatus reports whether s is one of the known statuses.
func ValidDoorStatus(s string) bool {
    return s == DoorClosed || s == DoorOpen
}
