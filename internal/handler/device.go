package handler

import (
    "errors"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/middleware"
    "github.com/iliyamo/door-access-admin/internal/model"
    "github.com/iliyamo/door-access-admin/internal/queue"
    "github.com/iliyamo/door-access-admin/internal/repository"
)

// DeviceHandler serves the JSON API used by the door controllers.
type DeviceHandler struct {
    Stores Stores
    Events EventPublisher
}

func NewDeviceHandler(st Stores, events EventPublisher) *DeviceHandler {
    return &DeviceHandler{Stores: st, Events: events}
}

// ----- DTOs -----

type badgeResp struct {
    UID     string   `json:"uid"`
    Name    string   `json:"name"`
    Zones   []string `json:"zones"`
    Allowed *bool    `json:"allowed,omitempty"` // only with ?zone=
}

type doorStatusReq struct {
    Status string `json:"status"`
}

type accessLogReq struct {
    UID      string     `json:"uid"`
    User     string     `json:"user"`
    Result   string     `json:"result"`
    Location string     `json:"location"`
    Time     *time.Time `json:"time"`
}

// GetBadge handles GET /api/v1/badges/:uid.  The controller either checks
// the returned zones against its own door or passes ?zone= and reads
// "allowed".
func (h *DeviceHandler) GetBadge(c echo.Context) error {
    uid := model.NormalizeUID(pathParam(c, "uid"))
    b, err := h.Stores.Badges.GetByUID(c.Request().Context(), uid)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "badge not found"})
        }
        return h.storeError(c, "get badge", err)
    }
    zones := b.Zones
    if zones == nil {
        zones = []string{}
    }
    resp := badgeResp{UID: b.UID, Name: b.FullName(), Zones: zones}
    if zone := strings.TrimSpace(c.QueryParam("zone")); zone != "" {
        allowed := b.HasZone(zone)
        resp.Allowed = &allowed
    }
    return c.JSON(http.StatusOK, resp)
}

// SetDoorStatus handles POST /api/v1/doors/:name/status.
func (h *DeviceHandler) SetDoorStatus(c echo.Context) error {
    name := pathParam(c, "name")
    var req doorStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !model.ValidDoorStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Open or Gesloten"})
    }
    err := h.Stores.Doors.SetStatus(c.Request().Context(), name, req.Status, time.Now().UTC())
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "door not found"})
        }
        return h.storeError(c, "set door status", err)
    }
    return c.NoContent(http.StatusNoContent)
}

// RecordAccess handles POST /api/v1/access-logs.  With a broker the entry
// is queued for the worker; without one, or when publishing fails, it is
// written directly.
func (h *DeviceHandler) RecordAccess(c echo.Context) error {
    var req accessLogReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if strings.TrimSpace(req.UID) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "uid is required"})
    }
    at := time.Now().UTC()
    if req.Time != nil && !req.Time.IsZero() {
        at = req.Time.UTC()
    }

    ctx := c.Request().Context()
    if h.Events != nil && h.Events.Enabled() {
        ev := queue.AccessRecordedEvent{
            UID:      req.UID,
            User:     req.User,
            Result:   req.Result,
            Location: req.Location,
            Time:     at,
            Device:   middleware.Device(c),
        }
        err := h.Events.Publish(ctx, queue.QueueAccessRecorded, ev)
        if err == nil {
            return c.JSON(http.StatusAccepted, echo.Map{"status": "queued"})
        }
        slog.WarnContext(ctx, "access log not queued, storing directly", "error", err)
    }

    entry := &model.AccessLog{Time: at, UID: req.UID, User: req.User, Result: req.Result, Location: req.Location}
    if err := h.Stores.AccessLogs.Create(ctx, entry); err != nil {
        return h.storeError(c, "record access", err)
    }
    return c.JSON(http.StatusAccepted, echo.Map{"status": "stored", "id": entry.ID})
}

func (h *DeviceHandler) storeError(c echo.Context, op string, err error) error {
    slog.ErrorContext(c.Request().Context(), "device api store failure",
        "op", op, "device", middleware.Device(c), "error", err)
    if errors.Is(err, repository.ErrStoreUnavailable) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgStoreUnavailable})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
