package models

// Category is one of the closed set of labels every transaction belongs to.
type Category string

const (
	CategoryRestaurants   Category = "RESTAURANTS"
	CategoryTransport     Category = "TRANSPORT"
	CategoryShopping      Category = "SHOPPING"
	CategoryTransfers     Category = "TRANSFERS"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryGroceries     Category = "GROCERIES"
	CategoryServices      Category = "SERVICES"
	CategoryGeneral       Category = "GENERAL"
	CategoryOthers        Category = "OTHERS"
	CategoryCash          Category = "CASH"
	CategoryTravel        Category = "TRAVEL"
	CategoryHealth        Category = "HEALTH"
	CategoryIncome        Category = "INCOME"
)

// Categories lists every member in declaration order. The classifier scans
// model output tokens against this set and the order here is the documented
// tie-break for prompt construction.
var Categories = []Category{
	CategoryRestaurants,
	CategoryTransport,
	CategoryShopping,
	CategoryTransfers,
	CategoryEntertainment,
	CategoryGroceries,
	CategoryServices,
	CategoryGeneral,
	CategoryOthers,
	CategoryCash,
	CategoryTravel,
	CategoryHealth,
	CategoryIncome,
}

var categoryByToken = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[string(c)] = c
	}
	return m
}()

// CategoryFromToken maps a normalised (upper-cased) token to its enum member.
// Only exact member-name matches count; anything else is not a category.
func CategoryFromToken(token string) (Category, bool) {
	c, ok := categoryByToken[token]
	return c, ok
}

// Valid reports whether c is a member of the closed enumeration.
func (c Category) Valid() bool {
	_, ok := categoryByToken[string(c)]
	return ok
}

// CategoryNames returns the member names, used for prompts and validation messages.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}
