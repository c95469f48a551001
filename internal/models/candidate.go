package models

// CandidateItem is a recommended dish. Items are created by the recommendation
// gateway and never mutated afterwards.
type CandidateItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RestaurantName string   `json:"restaurantName,omitempty"`
	Address        string   `json:"address,omitempty"`
	Calories       int      `json:"calories"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"imageUrl"`
}

// Detail is the expanded view shown when a card is swiped right.
type Detail struct {
	Name           string   `json:"name"`
	RestaurantName string   `json:"restaurantName"`
	Description    string   `json:"description"`
	Calories       int      `json:"calories"`
	Address        string   `json:"address"`
	Tags           []string `json:"tags"`
}

// Detail builds the expanded view of the item. A missing address reads "Nearby".
func (c CandidateItem) Detail() Detail {
	address := c.Address
	if address == "" {
		address = "Nearby"
	}
	return Detail{
		Name:           c.Name,
		RestaurantName: c.RestaurantName,
		Description:    c.Description,
		Calories:       c.Calories,
		Address:        address,
		Tags:           append([]string(nil), c.Tags...),
	}
}

// LeadTags returns at most the first n tags in the item's own order.
func (c CandidateItem) LeadTags(n int) []string {
	if n > len(c.Tags) {
		n = len(c.Tags)
	}
	return append([]string(nil), c.Tags[:n]...)
}
