package model

import "time"

// AccessLog records one badge scan at a door controller.
type AccessLog struct {
    ID       string    // access_logs.id
    Time     time.Time // access_logs.logged_at
    UID      string    // access_logs.badge_uid
    User     string    // access_logs.user_name
    Result   string    // access_logs.result, e.g. "Toegang toegestaan"
    Location string    // access_logs.location (door or department)
}
