package handler // handler defines http handlers

import (
    "context"
    "database/sql"
    "errors"
    "log/slog"
    "net/http"
    "net/url"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/repository"
    "github.com/iliyamo/door-access-admin/internal/web"
)

// User-facing messages.  Raw store or provider errors never reach the
// client; they are logged instead.
const (
    msgStoreUnavailable = "database unreachable"
    msgInternal         = "something went wrong, please try again"
    msgNotFound         = "document not found"
)

// EventPublisher sends domain events to the broker.  *queue.Publisher
// satisfies it, including a nil one.
type EventPublisher interface {
    Enabled() bool
    Publish(ctx context.Context, queueName string, event any) error
}

// Stores bundles the repositories the handlers write to.
type Stores struct {
    Personnel  *repository.PersonnelRepo
    Badges     *repository.BadgeRepo
    Doors      *repository.DoorRepo
    AccessLogs *repository.AccessLogRepo
}

// NewStores builds every repository over db.  db may be nil when the
// database could not be reached at startup; each call then fails with
// repository.ErrStoreUnavailable.
func NewStores(db *sql.DB) Stores {
    return Stores{
        Personnel:  repository.NewPersonnelRepo(db),
        Badges:     repository.NewBadgeRepo(db),
        Doors:      repository.NewDoorRepo(db),
        AccessLogs: repository.NewAccessLogRepo(db),
    }
}

// renderError writes the error page with status.
func renderError(c echo.Context, status int, msg string) error {
    return c.Render(status, web.TemplateError, web.ErrorPage{Status: status, Message: msg})
}

// storeFailure logs err with attrs and answers 500.  An unreachable store
// gets its own message so operators can tell it apart from a bug.
func storeFailure(c echo.Context, op string, err error, attrs ...any) error {
    attrs = append(attrs, "op", op, "error", err)
    slog.ErrorContext(c.Request().Context(), "store operation failed", attrs...)
    if errors.Is(err, repository.ErrStoreUnavailable) {
        return renderError(c, http.StatusInternalServerError, msgStoreUnavailable)
    }
    return renderError(c, http.StatusInternalServerError, msgInternal)
}

// dataPath is the URL of a data page.
func dataPath(page string) string {
    return "/data/" + url.PathEscape(page)
}

// pathParam returns the decoded value of a route parameter.  Echo matches
// on the raw path when the request carried escapes the plain path cannot
// express (such as %2F), and the parameter is still escaped then; otherwise
// it is already decoded and must not be unescaped again.
func pathParam(c echo.Context, name string) string {
    raw := c.Param(name)
    if c.Request().URL.RawPath == "" {
        return raw
    }
    if v, err := url.PathUnescape(raw); err == nil {
        return v
    }
    return raw
}

// publish sends an event without tying its fate to the request.  Failures
// are logged by the publisher and otherwise ignored.
func publish(c echo.Context, events EventPublisher, queueName string, event any) {
    if events == nil || !events.Enabled() {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 5*time.Second)
    defer cancel()
    if err := events.Publish(ctx, queueName, event); err != nil {
        slog.WarnContext(ctx, "event not published", "queue", queueName, "error", err)
    }
}
