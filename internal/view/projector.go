package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/door-access-admin/internal/model"
)

// TimeLayout is used for every timestamp cell.
const TimeLayout = "2006-01-02 15:04:05"

// ErrUnknownPage is returned for page names outside the closed set.
var ErrUnknownPage = errors.New("unknown page")

// PersonnelLister, BadgeLister, DoorLister and AccessLogLister are the
// reads the projector needs; the repositories satisfy them.
type PersonnelLister interface {
	List(ctx context.Context) ([]model.Personnel, error)
}

type BadgeLister interface {
	List(ctx context.Context) ([]model.AuthorizedBadge, error)
}

type DoorLister interface {
	List(ctx context.Context) ([]model.Door, error)
}

type AccessLogLister interface {
	List(ctx context.Context) ([]model.AccessLog, error)
}

// Sources bundles the collections a Reader can fetch from.
type Sources struct {
	Personnel  PersonnelLister
	Badges     BadgeLister
	Doors      DoorLister
	AccessLogs AccessLogLister
}

// Row is one rendered table row. Cells line up with PageView.Headers; ID is
// the record key used by the delete action.
type Row struct {
	ID    string
	Cells []string
}

// BadgeRow is the display projection of an authorized badge.
type BadgeRow struct {
	ID         string
	Name       string
	Department string
	Role       string
	Zones      []string
	UID        string
}

// PageView is the model handed to the data page template. Personnel and
// Doors are only filled on the badge page, where they feed the selection
// lists of the add forms.
type PageView struct {
	Title     string
	Headers   []string
	Rows      []Row
	Personnel []model.Personnel
	Doors     []model.Door
	UserName  string
	Flash     string
}

// Reader fetches a page's collection and projects it into a PageView.
type Reader struct {
	src Sources
}

// NewReader constructs a Reader over the given sources.
func NewReader(src Sources) *Reader {
	return &Reader{src: src}
}

// ShowData builds the view for page. ErrUnknownPage is returned for names
// outside the page set; store errors are wrapped and passed through.
func (r *Reader) ShowData(ctx context.Context, page string) (*PageView, error) {
	headers, ok := Columns(page)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	pv := &PageView{Title: page, Headers: headers}

	switch page {
	case PagePersonnel:
		people, err := r.src.Personnel.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", page, err)
		}
		for _, p := range people {
			pv.Rows = append(pv.Rows, PersonnelRow(p))
		}

	case PageBadges:
		badges, err := r.src.Badges.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", page, err)
		}
		for _, b := range badges {
			pv.Rows = append(pv.Rows, ProjectBadge(b).Row())
		}
		// side-fetch for the add forms
		if pv.Personnel, err = r.src.Personnel.List(ctx); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", PagePersonnel, err)
		}
		if pv.Doors, err = r.src.Doors.List(ctx); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", PageDoors, err)
		}

	case PageDoors:
		doors, err := r.src.Doors.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", page, err)
		}
		for _, d := range doors {
			pv.Rows = append(pv.Rows, DoorRow(d))
		}

	case PageAccessLogs:
		logs, err := r.src.AccessLogs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", page, err)
		}
		for _, l := range logs {
			pv.Rows = append(pv.Rows, AccessLogRow(l))
		}
	}

	if pv.Personnel == nil {
		pv.Personnel = []model.Personnel{}
	}
	if pv.Doors == nil {
		pv.Doors = []model.Door{}
	}
	return pv, nil
}

// ProjectBadge maps a stored badge onto the badge page fields. The UID is
// the record key, or NotAvailable when the key is empty.
func ProjectBadge(b model.AuthorizedBadge) BadgeRow {
	uid := b.UID
	if uid == "" {
		uid = NotAvailable
	}
	return BadgeRow{
		ID:         b.UID,
		Name:       b.FullName(),
		Department: b.Department,
		Role:       b.Role,
		Zones:      append([]string{}, b.Zones...),
		UID:        uid,
	}
}

// Row renders the projection in PageBadges column order.
func (b BadgeRow) Row() Row {
	return Row{
		ID:    b.ID,
		Cells: []string{b.Name, b.Department, b.Role, strings.Join(b.Zones, ", "), b.UID},
	}
}

// PersonnelRow renders a personnel record in PagePersonnel column order.
func PersonnelRow(p model.Personnel) Row {
	return Row{
		ID:    p.ID,
		Cells: []string{p.FirstName, p.LastName, p.Department, p.Role, p.Email, p.Phone, p.Address, p.LinkedBadgeUID, p.ID},
	}
}

// DoorRow renders a door in PageDoors column order.
func DoorRow(d model.Door) Row {
	return Row{
		ID:    d.Name,
		Cells: []string{d.Name, d.Status, formatTime(d.LastUpdate)},
	}
}

// AccessLogRow renders an access log entry in PageAccessLogs column order.
func AccessLogRow(l model.AccessLog) Row {
	return Row{
		ID:    l.ID,
		Cells: []string{formatTime(l.Time), l.UID, l.User, l.Result, l.Location},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
