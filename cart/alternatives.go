package cart

import "smartcart/models"

// Alternative is a cheaper product in the same category.
type Alternative struct {
	Product models.Product `json:"product"`
	Savings float64        `json:"savings"`
}

// FindCheaper returns catalog products sharing p's category with a strictly
// lower price, in catalog order. Uncategorised products have none.
func FindCheaper(p models.Product, catalog []models.Product) []Alternative {
	alternatives := make([]Alternative, 0)
	if p.Category == "" {
		return alternatives
	}
	for _, candidate := range catalog {
		if candidate.ID == p.ID || candidate.Category != p.Category || candidate.Price >= p.Price {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Product: candidate,
			Savings: p.Price - candidate.Price,
		})
	}
	return alternatives
}
