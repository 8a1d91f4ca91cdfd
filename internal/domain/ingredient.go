package domain

// Ingredient represents one priced, categorized grocery item returned by the
// ingredient search endpoint
type Ingredient struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	CurrentPrice  float64 `json:"current_price"`
	CleanImageURL string  `json:"clean_image_url"`
}

// CategorizedResponse is the search response body: category -> subcategory -> ingredients
type CategorizedResponse map[string]map[string][]Ingredient

// Count returns the total number of ingredients across all categories
func (r CategorizedResponse) Count() int {
	n := 0
	for _, subcategories := range r {
		for _, ingredients := range subcategories {
			n += len(ingredients)
		}
	}
	return n
}

// SearchRequest holds the query parameters sent to the search endpoint
type SearchRequest struct {
	Categories []string
	PostalCode string
}
