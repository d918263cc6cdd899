package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "strings"

    "github.com/iliyamo/door-access-admin/internal/model"
)

// AccessLogWriter is the store access.recorded messages are written to.
type AccessLogWriter interface {
    Create(ctx context.Context, l *model.AccessLog) error
}

// RecordAccess returns the access.recorded handler: every scan becomes one
// access log entry.
func RecordAccess(logs AccessLogWriter, log *slog.Logger) HandlerFunc {
    if log == nil {
        log = slog.Default()
    }
    return func(ctx context.Context, body []byte) error {
        var ev AccessRecordedEvent
        if err := decode(body, &ev); err != nil {
            return err
        }
        if strings.TrimSpace(ev.UID) == "" {
            return fmt.Errorf("%w: empty uid", ErrMalformed)
        }
        entry := &model.AccessLog{
            Time:     ev.Time,
            UID:      ev.UID,
            User:     ev.User,
            Result:   ev.Result,
            Location: ev.Location,
        }
        if err := logs.Create(ctx, entry); err != nil {
            return fmt.Errorf("store access log: %w", err)
        }
        log.Debug("consumer: recorded", "uid", entry.UID, "result", entry.Result, "device", ev.Device)
        return nil
    }
}

// AuditHandlers returns one handler per dashboard event queue.  Each writes
// the event to audit as a single "audit" record, so badge and door changes
// leave a trail outside the database.
func AuditHandlers(audit *slog.Logger) map[string]HandlerFunc {
    if audit == nil {
        audit = slog.Default()
    }
    return map[string]HandlerFunc{
        QueueBadgeAuthorized: auditOf(audit, QueueBadgeAuthorized, func(ev BadgeAuthorizedEvent) []any {
            if ev.UID == "" {
                return nil
            }
            return []any{"uid", ev.UID, "personnel_id", ev.PersonnelID, "name", ev.Name, "zones", ev.Zones, "at", ev.AuthorizedAt}
        }),
        QueueBadgeRevoked: auditOf(audit, QueueBadgeRevoked, func(ev BadgeRevokedEvent) []any {
            if ev.UID == "" {
                return nil
            }
            return []any{"uid", ev.UID, "at", ev.RevokedAt}
        }),
        QueueDoorAdded: auditOf(audit, QueueDoorAdded, func(ev DoorAddedEvent) []any {
            if ev.Name == "" {
                return nil
            }
            return []any{"door", ev.Name, "status", ev.Status, "at", ev.AddedAt}
        }),
    }
}

// auditOf decodes a T and logs the attributes attrs picks from it.  A nil
// attribute list marks the event as malformed.
func auditOf[T any](audit *slog.Logger, event string, attrs func(T) []any) HandlerFunc {
    return func(ctx context.Context, body []byte) error {
        var ev T
        if err := decode(body, &ev); err != nil {
            return err
        }
        args := attrs(ev)
        if args == nil {
            return fmt.Errorf("%w: %s without key", ErrMalformed, event)
        }
        audit.InfoContext(ctx, "audit", append([]any{"event", event}, args...)...)
        return nil
    }
}

func decode(body []byte, v any) error {
    if err := json.Unmarshal(body, v); err != nil {
        return fmt.Errorf("%w: %v", ErrMalformed, err)
    }
    return nil
}
