package factories

import (
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/foodswipe/internal/models"
)

type dish struct {
	name     string
	meal     string
	diet     string
	calories int
}

var dishesByCuisine = map[string][]dish{
	"italian": {
		{"Margherita Pizza", "dinner", "vegetarian", 800},
		{"Spaghetti Carbonara", "dinner", "pork", 750},
		{"Lasagna", "dinner", "beef", 700},
		{"Tiramisu", "dessert", "vegetarian", 450},
	},
	"indian": {
		{"Chicken Tikka Masala", "dinner", "chicken", 650},
		{"Vegetable Curry", "lunch", "vegan", 420},
		{"Paneer Butter Masala", "dinner", "vegetarian", 600},
		{"Biryani", "lunch", "chicken", 720},
	},
	"american": {
		{"Classic Cheeseburger", "lunch", "beef", 850},
		{"BBQ Ribs", "dinner", "pork", 950},
		{"Cobb Salad", "lunch", "chicken", 520},
		{"Apple Pie", "dessert", "vegetarian", 410},
	},
	"japanese": {
		{"Sushi Roll", "dinner", "seafood", 380},
		{"Ramen", "dinner", "pork", 690},
		{"Tempura", "lunch", "seafood", 540},
		{"Miso Soup", "lunch", "vegan", 90},
	},
	"mexican": {
		{"Tacos", "lunch", "beef", 560},
		{"Burrito", "lunch", "chicken", 780},
		{"Guacamole", "snack", "vegan", 240},
		{"Quesadilla", "lunch", "vegetarian", 610},
	},
	"chinese": {
		{"Kung Pao Chicken", "dinner", "chicken", 620},
		{"Fried Rice", "lunch", "pork", 580},
		{"Dumplings", "lunch", "pork", 430},
		{"Mapo Tofu", "dinner", "vegetarian", 480},
	},
	"thai": {
		{"Pad Thai", "dinner", "seafood", 640},
		{"Green Curry", "dinner", "chicken", 590},
		{"Tom Yum Soup", "lunch", "seafood", 260},
		{"Mango Sticky Rice", "dessert", "vegan", 420},
	},
	"greek": {
		{"Gyros", "lunch", "pork", 680},
		{"Greek Salad", "lunch", "vegetarian", 320},
		{"Moussaka", "dinner", "beef", 710},
		{"Baklava", "dessert", "vegetarian", 390},
	},
	"mediterranean": {
		{"Falafel", "lunch", "vegan", 480},
		{"Hummus", "snack", "vegan", 260},
		{"Tabbouleh", "lunch", "vegan", 210},
		{"Grilled Halloumi", "dinner", "vegetarian", 530},
	},
}

// Cuisines lists the cuisines the factory draws from, in a stable order.
var Cuisines = []string{"italian", "indian", "american", "japanese", "mexican", "chinese", "thai", "greek", "mediterranean"}

// CandidateFactory fabricates plausible dishes for offline use and tests.
type CandidateFactory struct {
	fake faker.Faker
}

// NewCandidateFactory returns a factory; a zero seed draws from a random source.
func NewCandidateFactory(seed int64) *CandidateFactory {
	if seed == 0 {
		return &CandidateFactory{fake: faker.New()}
	}
	return &CandidateFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// CreateCandidate returns a dish with a fresh cuid. ImageURL is left for the
// gateway to derive.
func (cf *CandidateFactory) CreateCandidate() models.CandidateItem {
	cuisine := Cuisines[cf.fake.IntBetween(0, len(Cuisines)-1)]
	return cf.fromDish(cuisine, cf.pick(cuisine))
}

// CreateAvoiding returns up to n dishes whose tags and names avoid every
// disliked tag and taboo word. Fewer are returned when the catalog runs out.
func (cf *CandidateFactory) CreateAvoiding(n int, prefs models.Preferences) []models.CandidateItem {
	var pool []models.CandidateItem
	for _, cuisine := range Cuisines {
		for _, d := range dishesByCuisine[cuisine] {
			c := cf.fromDish(cuisine, d)
			if !avoids(c, prefs) {
				continue
			}
			pool = append(pool, c)
		}
	}

	// shuffle with the factory's own source so seeded runs are reproducible
	for i := len(pool) - 1; i > 0; i-- {
		j := cf.fake.IntBetween(0, i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

func (cf *CandidateFactory) pick(cuisine string) dish {
	dishes := dishesByCuisine[cuisine]
	return dishes[cf.fake.IntBetween(0, len(dishes)-1)]
}

func (cf *CandidateFactory) fromDish(cuisine string, d dish) models.CandidateItem {
	return models.CandidateItem{
		ID:             cuid.New(),
		Name:           d.name,
		Description:    cf.fake.Lorem().Sentence(10),
		RestaurantName: cf.fake.Company().Name(),
		Address:        cf.fake.Address().StreetAddress(),
		Calories:       d.calories + cf.fake.IntBetween(-50, 50),
		Tags:           []string{d.meal, cuisine, d.diet},
	}
}

func avoids(c models.CandidateItem, prefs models.Preferences) bool {
	for _, tag := range c.Tags {
		for _, disliked := range prefs.DislikedTags {
			if strings.EqualFold(tag, disliked) {
				return false
			}
		}
	}

	haystack := strings.ToLower(c.Name + " " + strings.Join(c.Tags, " "))
	for _, word := range tabooWords(prefs.Taboos) {
		if allowed, ok := dietRequirements[word]; ok {
			if !allowed[c.Tags[len(c.Tags)-1]] {
				return false
			}
			continue
		}
		if strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

// dietRequirements maps diet taboos to the diet tags that satisfy them.
var dietRequirements = map[string]map[string]bool{
	"vegetarian": {"vegetarian": true, "vegan": true},
	"vegan":      {"vegan": true},
}

// tabooWords splits free-text taboos like "No pork, no shellfish" into the
// words worth matching ("pork", "shellfish").
func tabooWords(taboos string) []string {
	var words []string
	for _, field := range strings.FieldsFunc(strings.ToLower(taboos), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '/'
	}) {
		if field == "no" || field == "not" || field == "without" || len(field) < 3 {
			continue
		}
		words = append(words, field)
	}
	return words
}
