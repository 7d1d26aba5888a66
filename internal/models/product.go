package models

// Product categories as authored in menu.json.
const (
	CategoryRamen  = "ramen"
	CategoryExtras = "extras"
	CategorySides  = "sides"
	CategoryDrinks = "drinks"
	CategorySpicy  = "spicy"
)

// Product is immutable reference data owned by the menu file. Ramen products
// carry a size-keyed price map; everything else has a flat price.
type Product struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Price    float64            `json:"price,omitempty"`
	Prices   map[string]float64 `json:"prices,omitempty"`
	Image    string             `json:"image,omitempty"`
}

type Menu struct {
	Products []Product `json:"products"`
}
