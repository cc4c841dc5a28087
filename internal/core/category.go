package core

// The category set is fixed: these are the spend buckets a student actually
// has, not user-defined taxonomy. Aggregation only ever sees the ID; display
// names are for the presentation layer.
const (
	CategoryFood      = "food"
	CategoryTransport = "transport"
	CategoryData      = "data"
	CategoryPrinting  = "printing"
	CategoryMisc      = "misc"
)

// Category pairs a stable identifier with its display name.
type Category struct {
	ID   string
	Name string
}

// Categories lists the known categories in presentation order.
var Categories = []Category{
	{ID: CategoryFood, Name: "Food (Mama Put)"},
	{ID: CategoryTransport, Name: "Transport (Keke/Cab)"},
	{ID: CategoryData, Name: "Data/Airtime"},
	{ID: CategoryPrinting, Name: "Printing/Photocopy"},
	{ID: CategoryMisc, Name: "Miscellaneous"},
}

// CategoryByID resolves a category identifier, falling back to Miscellaneous
// for anything unknown. The lookup is total: it never fails, so records with
// stale or foreign category keys still render.
func CategoryByID(id string) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Categories[len(Categories)-1]
}

// KnownCategory reports whether id is one of the fixed category identifiers.
func KnownCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
