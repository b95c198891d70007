package domain

type Location string

const (
	LocationElSunzal Location = "El Sunzal"
	LocationCorinto  Location = "Corinto"
)

func (l Location) Valid() bool {
	return l == LocationElSunzal || l == LocationCorinto
}

// PricingRule is an entry of the fixed companion fee table.
type PricingRule struct {
	ID          string   `json:"id"`
	Location    Location `json:"location"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Condition   string   `json:"condition,omitempty"`
}
