package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/model"
    "github.com/iliyamo/door-access-admin/internal/queue"
    "github.com/iliyamo/door-access-admin/internal/repository"
    "github.com/iliyamo/door-access-admin/internal/view"
)

const (
    msgDoorNameRequired = "door name is required"
    msgAuthIncomplete   = "personnel, badge UID and at least one door are required"
    msgUnknownPersonnel = "unknown personnel record"
)

// AddPersonnel handles POST /add/personeel.  The new record never starts
// with a linked badge; badges are only linked through AddAuthorization.
func (h *DashboardHandler) AddPersonnel(c echo.Context) error {
    p := &model.Personnel{
        FirstName:  formValue(c, "voornaam"),
        LastName:   formValue(c, "achternaam"),
        Department: formValue(c, "afdeling"),
        Role:       formValue(c, "functie"),
        Email:      formValue(c, "email"),
        Phone:      formValue(c, "telefoon"),
        Address:    formValue(c, "adres"),
    }
    if err := h.Stores.Personnel.Create(c.Request().Context(), p); err != nil {
        return storeFailure(c, "add personnel", err, "collection", view.PagePersonnel)
    }
    return c.Redirect(http.StatusSeeOther, dataPath(view.PagePersonnel))
}

// AddDoor handles POST /add/deur.  A blank name writes nothing; the user
// is sent back with a validation message.  An existing door is reset to
// closed.
func (h *DashboardHandler) AddDoor(c echo.Context) error {
    name := formValue(c, "deur_naam")
    if name == "" {
        return h.flashAndReturn(c, view.PageDoors, msgDoorNameRequired)
    }
    d := model.Door{Name: name, Status: model.DoorClosed, LastUpdate: time.Now().UTC()}
    if err := h.Stores.Doors.Upsert(c.Request().Context(), d); err != nil {
        return storeFailure(c, "add door", err, "collection", view.PageDoors, "id", name)
    }
    publish(c, h.Events, queue.QueueDoorAdded, queue.DoorAddedEvent{Name: d.Name, Status: d.Status, AddedAt: d.LastUpdate})
    return c.Redirect(http.StatusSeeOther, dataPath(view.PageDoors))
}

// AddAuthorization handles POST /add/autorisatie.  The badge is stored
// under its uppercased UID and linked to the chosen personnel record in
// one transaction.  Missing fields or an unknown personnel id write
// nothing.  A badge the person held before is dropped and announced as
// revoked ahead of the new authorization.
func (h *DashboardHandler) AddAuthorization(c echo.Context) error {
    personnelID := formValue(c, "personeel_id")
    uid := model.NormalizeUID(c.FormValue("uid"))
    zones := formValues(c, "toegang_tot", "toegang_tot[]")
    if personnelID == "" || uid == "" || len(zones) == 0 {
        return h.flashAndReturn(c, view.PageBadges, msgAuthIncomplete)
    }

    b, revoked, err := h.Stores.Badges.Link(c.Request().Context(), personnelID, uid, zones)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return h.flashAndReturn(c, view.PageBadges, msgUnknownPersonnel)
        }
        return storeFailure(c, "authorize badge", err, "collection", view.PageBadges, "id", uid)
    }
    h.publishRevoked(c, revoked)
    publish(c, h.Events, queue.QueueBadgeAuthorized, queue.BadgeAuthorizedEvent{
        UID:          b.UID,
        PersonnelID:  b.PersonnelID,
        Name:         b.FullName(),
        Zones:        b.Zones,
        AuthorizedAt: time.Now().UTC(),
    })
    return c.Redirect(http.StatusSeeOther, dataPath(view.PageBadges))
}

func formValue(c echo.Context, name string) string {
    return strings.TrimSpace(c.FormValue(name))
}

// formValues collects every non-blank value posted under any of names, in
// submission order.
func formValues(c echo.Context, names ...string) []string {
    params, err := c.FormParams()
    if err != nil {
        return nil
    }
    var out []string
    for _, n := range names {
        for _, v := range params[n] {
            if v = strings.TrimSpace(v); v != "" {
                out = append(out, v)
            }
        }
    }
    return out
}
