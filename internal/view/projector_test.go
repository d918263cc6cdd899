package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/door-access-admin/internal/model"
)

type stubPersonnel struct {
	items []model.Personnel
	err   error
	calls int
}

func (s *stubPersonnel) List(context.Context) ([]model.Personnel, error) {
	s.calls++
	return s.items, s.err
}

type stubBadges struct {
	items []model.AuthorizedBadge
	err   error
}

func (s *stubBadges) List(context.Context) ([]model.AuthorizedBadge, error) { return s.items, s.err }

type stubDoors struct {
	items []model.Door
	calls int
}

func (s *stubDoors) List(context.Context) ([]model.Door, error) {
	s.calls++
	return s.items, nil
}

type stubLogs struct{ items []model.AccessLog }

func (s *stubLogs) List(context.Context) ([]model.AccessLog, error) { return s.items, nil }

func newTestReader() (*Reader, *stubPersonnel, *stubBadges, *stubDoors, *stubLogs) {
	p := &stubPersonnel{}
	b := &stubBadges{}
	d := &stubDoors{}
	l := &stubLogs{}
	return NewReader(Sources{Personnel: p, Badges: b, Doors: d, AccessLogs: l}), p, b, d, l
}

func TestShowDataUnknownPage(t *testing.T) {
	r, _, _, _, _ := newTestReader()
	for _, page := range []string{"", "users", "personeelsinformatie", "../deurStatus"} {
		if _, err := r.ShowData(context.Background(), page); !errors.Is(err, ErrUnknownPage) {
			t.Errorf("page %q: expected ErrUnknownPage, got %v", page, err)
		}
	}
}

func TestEveryPageHasColumns(t *testing.T) {
	for _, page := range Pages() {
		cols, ok := Columns(page)
		if !ok || len(cols) == 0 {
			t.Errorf("page %q has no columns", page)
		}
	}
	if ValidPage("unknown") {
		t.Error("Expected unknown page to be invalid")
	}
}

func TestColumnsReturnsCopy(t *testing.T) {
	cols, _ := Columns(PageDoors)
	cols[0] = "changed"
	again, _ := Columns(PageDoors)
	if again[0] != "id" {
		t.Errorf("Registry was mutated through a returned slice: %v", again)
	}
}

func TestBadgePageProjection(t *testing.T) {
	r, p, b, d, _ := newTestReader()
	b.items = []model.AuthorizedBadge{
		{UID: "ABC1", FirstName: "Jan", LastName: "Peeters", Department: "IT", Role: "Dev", Zones: []string{"IT", "Lab"}},
		{UID: "XYZ9", FirstName: "", LastName: "Solo", Department: "HR"},
	}
	p.items = []model.Personnel{{ID: "p1", FirstName: "Jan"}}
	d.items = []model.Door{{Name: "Hoofdingang", Status: model.DoorClosed}}

	pv, err := r.ShowData(context.Background(), PageBadges)
	if err != nil {
		t.Fatalf("ShowData: %v", err)
	}
	if len(pv.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(pv.Rows))
	}
	for i, src := range b.items {
		row := pv.Rows[i]
		if row.ID != src.UID || row.Cells[4] != src.UID {
			t.Errorf("row %d: uid mismatch %+v vs %s", i, row, src.UID)
		}
		if want := model.JoinName(src.FirstName, src.LastName); row.Cells[0] != want {
			t.Errorf("row %d: name %q, want %q", i, row.Cells[0], want)
		}
	}
	if pv.Rows[1].Cells[0] != "Solo" {
		t.Errorf("Expected trimmed name 'Solo', got %q", pv.Rows[1].Cells[0])
	}
	if pv.Rows[0].Cells[3] != "IT, Lab" {
		t.Errorf("Unexpected zones cell %q", pv.Rows[0].Cells[3])
	}
	if len(pv.Personnel) != 1 || len(pv.Doors) != 1 {
		t.Errorf("Expected side-fetched lists, got %d personnel and %d doors", len(pv.Personnel), len(pv.Doors))
	}
}

func TestProjectBadgeMissingUID(t *testing.T) {
	row := ProjectBadge(model.AuthorizedBadge{FirstName: " Ann ", LastName: ""})
	if row.UID != NotAvailable {
		t.Errorf("Expected %q, got %q", NotAvailable, row.UID)
	}
	if row.Name != "Ann" {
		t.Errorf("Expected trimmed name, got %q", row.Name)
	}
	if row.Zones == nil {
		t.Error("Expected non-nil zone list")
	}
}

func TestNonBadgePagesSkipSideFetch(t *testing.T) {
	r, p, _, d, l := newTestReader()
	d.items = []model.Door{{Name: "Kelder", Status: model.DoorOpen, LastUpdate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}}
	l.items = []model.AccessLog{{ID: "l1", UID: "ABC1", Result: "Geweigerd"}}

	pv, err := r.ShowData(context.Background(), PageDoors)
	if err != nil {
		t.Fatalf("ShowData: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("Expected no personnel fetch on door page, got %d", p.calls)
	}
	if d.calls != 1 {
		t.Errorf("Expected exactly one door fetch, got %d", d.calls)
	}
	if len(pv.Personnel) != 0 || len(pv.Doors) != 0 {
		t.Error("Expected empty auxiliary lists")
	}
	if got := pv.Rows[0].Cells; got[0] != "Kelder" || got[2] != "2026-01-02 03:04:05" {
		t.Errorf("Unexpected door cells %v", got)
	}

	pv, err = r.ShowData(context.Background(), PageAccessLogs)
	if err != nil {
		t.Fatalf("ShowData logs: %v", err)
	}
	if len(pv.Rows) != 1 || pv.Rows[0].Cells[0] != "" || pv.Rows[0].Cells[3] != "Geweigerd" {
		t.Errorf("Unexpected log rows %+v", pv.Rows)
	}
}

func TestShowDataPropagatesStoreError(t *testing.T) {
	r, p, _, _, _ := newTestReader()
	storeErr := errors.New("boom")
	p.err = storeErr
	if _, err := r.ShowData(context.Background(), PagePersonnel); !errors.Is(err, storeErr) {
		t.Errorf("Expected wrapped store error, got %v", err)
	}
}

func TestPersonnelRowColumnOrder(t *testing.T) {
	cols, _ := Columns(PagePersonnel)
	row := PersonnelRow(model.Personnel{ID: "id1", FirstName: "A", LinkedBadgeUID: "U"})
	if len(row.Cells) != len(cols) {
		t.Fatalf("Expected %d cells, got %d", len(cols), len(row.Cells))
	}
	if row.Cells[7] != "U" || row.Cells[8] != "id1" {
		t.Errorf("Unexpected cells %v", row.Cells)
	}
}
