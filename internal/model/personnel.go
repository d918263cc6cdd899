package model

import "time"

// Personnel represents a staff member as stored in the `personnel`
// table.  LinkedBadgeUID points at the key of the member's
// AuthorizedBadge and is empty while no badge is authorized.
//
// Fields:
//  ID             – UUID assigned on creation.
//  FirstName      – personnel.first_name (form field voornaam).
//  LastName       – personnel.last_name (achternaam).
//  Department     – personnel.department (afdeling).
//  Role           – personnel.role (functie).
//  Email          – personnel.email.
//  Phone          – personnel.phone (telefoon).
//  Address        – personnel.address (adres).
//  LinkedBadgeUID – personnel.linked_badge_uid (gekoppelde_uid).
//  CreatedAt      – timestamp of creation.
type Personnel struct {
    ID             string
    FirstName      string
    LastName       string
    Department     string
    Role           string
    Email          string
    Phone          string
    Address        string
    LinkedBadgeUID string
    CreatedAt      time.Time
}

// FullName joins first and last name, trimmed.
func (p Personnel) FullName() string {
    return JoinName(p.FirstName, p.LastName)
}
