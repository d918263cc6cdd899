package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/model"
    "github.com/iliyamo/door-access-admin/internal/queue"
    "github.com/iliyamo/door-access-admin/internal/repository"
    "github.com/iliyamo/door-access-admin/internal/view"
)

// Delete handles POST /delete/:collection/:id and sends the browser back to
// the collection's page.  Deleting a badge also clears the linked uid of
// its holder; deleting a personnel record also removes the badge linked to
// it.  A record that is already gone is reported with a flash message, not
// an error page.
func (h *DashboardHandler) Delete(c echo.Context) error {
    collection := pathParam(c, "collection")
    id := pathParam(c, "id")
    if !view.ValidPage(collection) {
        return renderError(c, http.StatusNotFound, "collection not found")
    }

    ctx := c.Request().Context()
    var err error
    switch collection {
    case view.PageBadges:
        err = h.Stores.Badges.Unlink(ctx, id)
        if err == nil {
            h.publishRevoked(c, model.NormalizeUID(id))
        }
    case view.PagePersonnel:
        var revoked string
        revoked, err = h.Stores.Personnel.Delete(ctx, id)
        if err == nil {
            h.publishRevoked(c, revoked)
        }
    case view.PageDoors:
        err = h.Stores.Doors.Delete(ctx, id)
    case view.PageAccessLogs:
        err = h.Stores.AccessLogs.Delete(ctx, id)
    }

    switch {
    case err == nil:
        return c.Redirect(http.StatusSeeOther, dataPath(collection))
    case errors.Is(err, repository.ErrNotFound):
        return h.flashAndReturn(c, collection, msgNotFound)
    default:
        return storeFailure(c, "delete", err, "collection", collection, "id", id)
    }
}

// publishRevoked announces that badge uid no longer opens any door.  Every
// path that deletes a badge row goes through here; an empty uid is a no-op.
func (h *DashboardHandler) publishRevoked(c echo.Context, uid string) {
    if uid == "" {
        return
    }
    publish(c, h.Events, queue.QueueBadgeRevoked, queue.BadgeRevokedEvent{UID: uid, RevokedAt: time.Now().UTC()})
}
