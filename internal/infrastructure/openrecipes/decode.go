package openrecipes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/openrecipes/ingredient-panel/internal/domain"
)

// wireIngredient mirrors one ingredient as sent by the API. The price is a
// pointer so a missing or null current_price can be told apart from 0.
type wireIngredient struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	CurrentPrice  *float64 `json:"current_price"`
	CleanImageURL string   `json:"clean_image_url"`
}

type wireResponse map[string]map[string][]*wireIngredient

// DecodeCategorized parses a search response body. Anything that is not a
// category -> subcategory -> ingredient list object is rejected, as is an
// ingredient that is null or has no numeric current_price. A JSON null body
// decodes to an empty response.
func DecodeCategorized(body []byte) (domain.CategorizedResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var wire wireResponse
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := make(domain.CategorizedResponse, len(wire))
	for category, subcategories := range wire {
		converted := make(map[string][]domain.Ingredient, len(subcategories))
		for subcategory, items := range subcategories {
			ingredients := make([]domain.Ingredient, 0, len(items))
			for i, item := range items {
				if item == nil {
					return nil, fmt.Errorf("%s/%s[%d]: ingredient is null", category, subcategory, i)
				}
				if item.CurrentPrice == nil {
					return nil, fmt.Errorf("%s/%s[%d]: current_price is missing", category, subcategory, i)
				}
				ingredients = append(ingredients, domain.Ingredient{
					Name:          item.Name,
					Category:      item.Category,
					Subcategory:   item.Subcategory,
					CurrentPrice:  *item.CurrentPrice,
					CleanImageURL: item.CleanImageURL,
				})
			}
			converted[subcategory] = ingredients
		}
		result[category] = converted
	}
	return result, nil
}
