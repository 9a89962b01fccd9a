package menu

// Item is a restaurant menu entry. Price is in integer minor-currency
// units; orders snapshot it at creation time.
type Item struct {
	ID               string   `json:"id"`
	RestaurantID     string   `json:"restaurantId"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Price            int64    `json:"price"`
	Sizes            []string `json:"sizes,omitempty"`
	SpicinessOptions []string `json:"spicinessOptions,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	IsAvailable      bool     `json:"isAvailable"`
	SortOrder        int64    `json:"sortOrder"`
	Allergens        []string `json:"allergens"`
	Tags             []string `json:"tags"`
}

// Patch carries the optional fields of a partial update; nil means
// "leave unchanged".
type Patch struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Price            *int64   `json:"price"`
	Sizes            []string `json:"sizes"`
	SpicinessOptions []string `json:"spicinessOptions"`
	ImageURL         *string  `json:"imageUrl"`
	IsAvailable      *bool    `json:"isAvailable"`
	SortOrder        *int64   `json:"sortOrder"`
	Allergens        []string `json:"allergens"`
	Tags             []string `json:"tags"`
}

func (p *Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Sizes == nil && p.SpicinessOptions == nil && p.ImageURL == nil &&
		p.IsAvailable == nil && p.SortOrder == nil && p.Allergens == nil && p.Tags == nil
}
