package model

import (
    "strings"
    "time"
)

// AuthorizedBadge is a row in `authorized_badges`, keyed by the badge UID
// in upper case.  Name, department and role are copied from the owning
// Personnel when the badge is authorized.
type AuthorizedBadge struct {
    UID         string    // authorized_badges.uid
    PersonnelID string    // authorized_badges.personnel_id
    FirstName   string    // authorized_badges.first_name
    LastName    string    // authorized_badges.last_name
    Department  string    // authorized_badges.department
    Role        string    // authorized_badges.role
    Zones       []string  // authorized_badges.zones (JSON array)
    CreatedAt   time.Time // authorized_badges.created_at
}

// FullName joins first and last name, trimmed.
func (b AuthorizedBadge) FullName() string {
    return JoinName(b.FirstName, b.LastName)
}

// HasZone reports whether the badge grants access to zone.
func (b AuthorizedBadge) HasZone(zone string) bool {
    for _, z := range b.Zones {
        if strings.EqualFold(z, zone) {
            return true
        }
    }
    return false
}

// NormalizeUID is the canonical form of a badge UID.
func NormalizeUID(uid string) string {
    return strings.ToUpper(strings.TrimSpace(uid))
}

// JoinName is "first last" with surrounding whitespace removed.
func JoinName(first, last string) string {
    return strings.TrimSpace(first + " " + last)
}
