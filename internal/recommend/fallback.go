package recommend

import "github.com/chrisdamba/foodswipe/internal/models"

// Fallback returns the fixed batch served whenever live recommendations
// cannot be produced. Each call returns a fresh slice.
func Fallback() []models.CandidateItem {
	return []models.CandidateItem{
		{
			ID:             "1",
			Name:           "Avocado Toast",
			Description:    "Creamy avocado spread on toasted sourdough with poached eggs and chili flakes.",
			Tags:           []string{"breakfast", "healthy", "vegetarian"},
			Calories:       350,
			ImageURL:       "https://picsum.photos/id/1080/600/1000",
			RestaurantName: "The Morning Brew",
			Address:        "123 Main St",
		},
		{
			ID:             "2",
			Name:           "Truffle Mushroom Pasta",
			Description:    "Handmade tagliatelle tossed in a rich truffle cream sauce with wild mushrooms.",
			Tags:           []string{"dinner", "pasta", "italian"},
			Calories:       680,
			ImageURL:       "https://picsum.photos/id/1084/600/1000",
			RestaurantName: "Luigi's Trattoria",
			Address:        "45 Olive Ave",
		},
		{
			ID:             "3",
			Name:           "Spicy Tuna Roll",
			Description:    "Fresh tuna with spicy mayo, cucumber, and sesame seeds.",
			Tags:           []string{"sushi", "japanese", "seafood"},
			Calories:       320,
			ImageURL:       "https://picsum.photos/id/111/600/1000",
			RestaurantName: "Sakura Sushi",
			Address:        "88 Fish Market Rd",
		},
	}
}
