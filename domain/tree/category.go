package tree

// Category groups trees coarsely. The three built-in categories get display
// names and icons; unknown category strings are accepted and shown as-is.
type Category string

const (
	CategoryFamily   Category = "family"
	CategoryFactions Category = "factions"
	CategoryExtras   Category = "extras"
)

// CategoryInfo describes a category for browsing.
type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
}

var categoryCatalog = []CategoryInfo{
	{ID: CategoryFamily, Name: "Family Trees", Icon: "fas fa-sitemap"},
	{ID: CategoryFactions, Name: "Factions", Icon: "fas fa-flag"},
	{ID: CategoryExtras, Name: "Extras", Icon: "fas fa-star"},
}

// Categories returns the built-in category catalog in presentation order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// DisplayName resolves a category to its display name, falling back to the
// raw category string.
func (c Category) DisplayName() string {
	for _, info := range categoryCatalog {
		if info.ID == c {
			return info.Name
		}
	}
	return string(c)
}
