// Package view turns stored records into the tables shown on the dashboard
// pages. The page set is closed: every page has an explicit column list and
// a projection function, so headers are never inferred from data.
package view

// Page identifiers double as collection names in URLs.
const (
	PagePersonnel  = "Personeelsinformatie"
	PageBadges     = "geautoriseerdPersoneel"
	PageDoors      = "deurStatus"
	PageAccessLogs = "toegangslogboeken"
)

// NotAvailable is shown for a badge row without a UID.
const NotAvailable = "N/A"

var columns = map[string][]string{
	PagePersonnel:  {"voornaam", "achternaam", "afdeling", "functie", "email", "telefoon", "adres", "gekoppelde_uid", "id"},
	PageBadges:     {"Naam", "Afdeling", "Functie", "Toegang tot", "UID"},
	PageDoors:      {"id", "Status", "LaatsteUpdate"},
	PageAccessLogs: {"Tijd", "UID", "Gebruiker", "Resultaat", "Locatie"},
}

var pageOrder = []string{PagePersonnel, PageBadges, PageDoors, PageAccessLogs}

// Columns returns a copy of the ordered column labels for page and whether
// the page exists.
func Columns(page string) ([]string, bool) {
	cols, ok := columns[page]
	if !ok {
		return nil, false
	}
	return append([]string(nil), cols...), true
}

// ValidPage reports whether page belongs to the closed page set.
func ValidPage(page string) bool {
	_, ok := columns[page]
	return ok
}

// Pages lists the page identifiers in navigation order.
func Pages() []string {
	return append([]string(nil), pageOrder...)
}
