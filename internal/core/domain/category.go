package domain

// Category is a sidebar navigation group holding ordered subcategories.
type Category struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Order         int           `json:"order"`
	Subcategories []SubCategory `json:"subcategories"`
}

// SubCategory is one navigable entry inside a category.
type SubCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// The "General" group and its two built-in subcategories are system-owned:
// they can never be renamed, deleted or reordered away from their group.
const (
	GeneralTitle      = "General"
	AllAssetsCategory = "All Assets"
	FavoritesCategory = "Favorites"
)

// ProtectedTitle reports whether the given category or subcategory name is
// system-owned.
func ProtectedTitle(name string) bool {
	switch name {
	case GeneralTitle, AllAssetsCategory, FavoritesCategory:
		return true
	}
	return false
}

// Protected reports whether the category as a whole is system-owned.
func (c Category) Protected() bool {
	return c.Title == GeneralTitle
}

// SubcategoryNames flattens the subcategory names in display order.
func (c Category) SubcategoryNames() []string {
	names := make([]string, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		names = append(names, sub.Name)
	}
	return names
}
