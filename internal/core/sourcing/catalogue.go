package sourcing

import (
	"meal-planner/internal/pkg/common"
)

func ing(name string, qty float64, unit string) common.Ingredient {
	return common.Ingredient{Name: name, Quantity: qty, Unit: unit}
}

// DefaultCatalogue 內建的備援餐點，成本與營養皆為每份
// 每次呼叫回傳新的切片，呼叫端可自由修改
func DefaultCatalogue() []common.MealCandidate {
	meals := []common.MealCandidate{
		// 早餐
		{
			Name: "Caprese Avocado Toast", Type: common.MealBreakfast, Cuisine: "italian", DietTag: "vegetarian",
			Description: "Toasted sourdough with avocado, tomato and fresh mozzarella.",
			Ingredients: []common.Ingredient{
				ing("sourdough bread", 2, "slice"), ing("avocado", 0.5, "unit"),
				ing("tomato", 1, "unit"), ing("mozzarella", 30, "g"), ing("basil", 1, "tbsp"),
			},
			Instructions: []string{
				"Toast the bread until golden.",
				"Mash the avocado and spread it on the toast.",
				"Top with sliced tomato, mozzarella and torn basil.",
			},
			Nutrition:        common.Nutrition{Calories: 420, Protein: 15, Carbs: 40, Fat: 22},
			EstimatedCostUSD: 2.4,
		},
		{
			Name: "Spinach Feta Omelette", Type: common.MealBreakfast, Cuisine: "mediterranean", DietTag: "vegetarian",
			Description: "Fluffy eggs folded around wilted spinach and feta.",
			Ingredients: []common.Ingredient{
				ing("egg", 3, "unit"), ing("spinach", 1, "cup"), ing("feta", 30, "g"), ing("olive oil", 1, "tsp"),
			},
			Instructions: []string{
				"Whisk the eggs with a pinch of salt.",
				"Wilt the spinach in olive oil.",
				"Pour in the eggs, add feta and fold once set.",
			},
			Nutrition:        common.Nutrition{Calories: 350, Protein: 24, Carbs: 4, Fat: 26},
			EstimatedCostUSD: 2.1,
		},
		{
			Name: "Peanut Butter Banana Oatmeal", Type: common.MealBreakfast, Cuisine: "american", DietTag: "vegan",
			Description: "Creamy oats with banana and a spoon of peanut butter.",
			Ingredients: []common.Ingredient{
				ing("rolled oats", 0.5, "cup"), ing("almond milk", 1, "cup"),
				ing("banana", 1, "unit"), ing("peanut butter", 1, "tbsp"),
			},
			Instructions: []string{
				"Simmer the oats in almond milk for 5 minutes.",
				"Top with sliced banana and peanut butter.",
			},
			Nutrition:        common.Nutrition{Calories: 410, Protein: 12, Carbs: 62, Fat: 13},
			EstimatedCostUSD: 1.6,
		},
		{
			Name: "Tamagoyaki Rice Bowl", Type: common.MealBreakfast, Cuisine: "japanese", DietTag: "vegetarian",
			Description: "Rolled sweet omelette over steamed rice with scallions.",
			Ingredients: []common.Ingredient{
				ing("egg", 2, "unit"), ing("rice", 0.75, "cup"), ing("soy sauce", 1, "tsp"),
				ing("sugar", 1, "tsp"), ing("scallion", 1, "unit"),
			},
			Instructions: []string{
				"Beat the eggs with soy sauce and sugar.",
				"Cook in thin layers, rolling each layer.",
				"Slice and serve over rice with scallions.",
			},
			Nutrition:        common.Nutrition{Calories: 380, Protein: 15, Carbs: 55, Fat: 10},
			EstimatedCostUSD: 1.5,
		},
		{
			Name: "Chorizo Breakfast Burrito", Type: common.MealBreakfast, Cuisine: "mexican",
			Description: "Flour tortilla stuffed with chorizo, eggs and salsa.",
			Ingredients: []common.Ingredient{
				ing("flour tortilla", 1, "unit"), ing("chorizo", 60, "g"), ing("egg", 2, "unit"),
				ing("cheddar", 20, "g"), ing("salsa", 2, "tbsp"),
			},
			Instructions: []string{
				"Brown the chorizo in a skillet.",
				"Scramble the eggs in the chorizo fat.",
				"Fill the warm tortilla with eggs, chorizo, cheese and salsa, then roll.",
			},
			Nutrition:        common.Nutrition{Calories: 610, Protein: 30, Carbs: 35, Fat: 38},
			EstimatedCostUSD: 3.2,
		},
		{
			Name: "Smoked Salmon Bagel", Type: common.MealBreakfast, Cuisine: "american", DietTag: "pescatarian",
			Description: "Bagel with cream cheese, smoked salmon and capers.",
			Ingredients: []common.Ingredient{
				ing("bagel", 1, "unit"), ing("cream cheese", 2, "tbsp"), ing("smoked salmon", 50, "g"),
				ing("capers", 1, "tsp"), ing("red onion", 0.25, "unit"),
			},
			Instructions: []string{
				"Toast the bagel halves.",
				"Spread with cream cheese and layer the salmon, onion and capers.",
			},
			Nutrition:        common.Nutrition{Calories: 450, Protein: 24, Carbs: 50, Fat: 16},
			EstimatedCostUSD: 3.5,
		},

		// 午餐
		{
			Name: "Minestrone Soup", Type: common.MealLunch, Cuisine: "italian", DietTag: "vegan",
			Description: "Hearty vegetable soup with beans and small pasta.",
			Ingredients: []common.Ingredient{
				ing("cannellini beans", 0.5, "can"), ing("carrot", 1, "unit"), ing("celery", 1, "unit"),
				ing("diced tomatoes", 0.5, "can"), ing("ditalini pasta", 40, "g"), ing("vegetable broth", 1.5, "cup"),
			},
			Instructions: []string{
				"Saute the chopped carrot and celery.",
				"Add tomatoes, broth and beans and simmer for 15 minutes.",
				"Stir in the pasta and cook until tender.",
			},
			Nutrition:        common.Nutrition{Calories: 390, Protein: 16, Carbs: 68, Fat: 5},
			EstimatedCostUSD: 1.8,
		},
		{
			Name: "Margherita Panini", Type: common.MealLunch, Cuisine: "italian", DietTag: "vegetarian",
			Description: "Pressed ciabatta with tomato, mozzarella and basil.",
			Ingredients: []common.Ingredient{
				ing("ciabatta", 1, "unit"), ing("mozzarella", 60, "g"), ing("tomato", 1, "unit"),
				ing("basil", 1, "tbsp"), ing("olive oil", 1, "tsp"),
			},
			Instructions: []string{
				"Layer mozzarella, tomato and basil inside the ciabatta.",
				"Brush with olive oil and press in a hot pan until the cheese melts.",
			},
			Nutrition:        common.Nutrition{Calories: 520, Protein: 22, Carbs: 55, Fat: 22},
			EstimatedCostUSD: 2.6,
		},
		{
			Name: "Chickpea Masala Wrap", Type: common.MealLunch, Cuisine: "indian", DietTag: "vegetarian",
			Description: "Spiced chickpeas with yogurt sauce in a warm flatbread.",
			Ingredients: []common.Ingredient{
				ing("chickpeas", 0.5, "can"), ing("naan", 1, "unit"), ing("plain yogurt", 3, "tbsp"),
				ing("garam masala", 1, "tsp"), ing("cucumber", 0.25, "unit"),
			},
			Instructions: []string{
				"Fry the chickpeas with garam masala until crisp.",
				"Mix yogurt with grated cucumber.",
				"Fill the warm naan with chickpeas and sauce.",
			},
			Nutrition:        common.Nutrition{Calories: 480, Protein: 19, Carbs: 70, Fat: 12},
			EstimatedCostUSD: 2.0,
		},
		{
			Name: "Black Bean Tacos", Type: common.MealLunch, Cuisine: "mexican", DietTag: "vegan",
			Description: "Corn tortillas with seasoned black beans, corn and lime.",
			Ingredients: []common.Ingredient{
				ing("black beans", 0.5, "can"), ing("corn tortilla", 3, "unit"), ing("corn", 0.5, "cup"),
				ing("lime", 0.5, "unit"), ing("cilantro", 1, "tbsp"),
			},
			Instructions: []string{
				"Warm the beans and corn with cumin.",
				"Heat the tortillas and fill with the bean mixture.",
				"Finish with cilantro and lime juice.",
			},
			Nutrition:        common.Nutrition{Calories: 430, Protein: 17, Carbs: 78, Fat: 6},
			EstimatedCostUSD: 1.9,
		},
		{
			Name: "Chicken Caesar Salad", Type: common.MealLunch, Cuisine: "american",
			Description: "Romaine, grilled chicken, croutons and parmesan.",
			Ingredients: []common.Ingredient{
				ing("chicken breast", 150, "g"), ing("romaine lettuce", 2, "cup"), ing("parmesan", 15, "g"),
				ing("croutons", 0.5, "cup"), ing("caesar dressing", 2, "tbsp"),
			},
			Instructions: []string{
				"Grill the chicken and slice it.",
				"Toss the lettuce with dressing, croutons and parmesan.",
				"Top with the chicken.",
			},
			Nutrition:        common.Nutrition{Calories: 540, Protein: 45, Carbs: 18, Fat: 31},
			EstimatedCostUSD: 3.4,
		},
		{
			Name: "Teriyaki Chicken Bowl", Type: common.MealLunch, Cuisine: "japanese",
			Description: "Glazed chicken thighs over rice with steamed broccoli.",
			Ingredients: []common.Ingredient{
				ing("chicken thigh", 150, "g"), ing("rice", 0.75, "cup"), ing("broccoli", 1, "cup"),
				ing("teriyaki sauce", 2, "tbsp"),
			},
			Instructions: []string{
				"Cook the rice.",
				"Pan-fry the chicken and glaze with teriyaki sauce.",
				"Serve over rice with steamed broccoli.",
			},
			Nutrition:        common.Nutrition{Calories: 620, Protein: 38, Carbs: 72, Fat: 17},
			EstimatedCostUSD: 3.3,
		},

		// 晚餐
		{
			Name: "Mushroom Risotto", Type: common.MealDinner, Cuisine: "italian", DietTag: "vegetarian",
			Description: "Creamy arborio rice with mushrooms and parmesan.",
			Ingredients: []common.Ingredient{
				ing("arborio rice", 0.5, "cup"), ing("mushrooms", 150, "g"), ing("vegetable broth", 2, "cup"),
				ing("parmesan", 20, "g"), ing("butter", 1, "tbsp"), ing("onion", 0.5, "unit"),
			},
			Instructions: []string{
				"Saute the onion and mushrooms in butter.",
				"Toast the rice, then add broth a ladle at a time while stirring.",
				"Finish with parmesan once the rice is creamy.",
			},
			Nutrition:        common.Nutrition{Calories: 560, Protein: 17, Carbs: 82, Fat: 17},
			EstimatedCostUSD: 2.9,
		},
		{
			Name: "Pasta Primavera", Type: common.MealDinner, Cuisine: "italian", DietTag: "vegetarian",
			Description: "Penne tossed with spring vegetables, garlic and parmesan.",
			Ingredients: []common.Ingredient{
				ing("penne", 100, "g"), ing("zucchini", 0.5, "unit"), ing("bell pepper", 0.5, "unit"),
				ing("cherry tomatoes", 0.5, "cup"), ing("garlic", 2, "clove"), ing("parmesan", 15, "g"),
			},
			Instructions: []string{
				"Boil the penne until al dente.",
				"Saute garlic and vegetables in olive oil.",
				"Toss the pasta with the vegetables and parmesan.",
			},
			Nutrition:        common.Nutrition{Calories: 540, Protein: 19, Carbs: 84, Fat: 13},
			EstimatedCostUSD: 2.5,
		},
		{
			Name: "Vegetable Lentil Curry", Type: common.MealDinner, Cuisine: "indian", DietTag: "vegan",
			Description: "Red lentils simmered with coconut milk and spices.",
			Ingredients: []common.Ingredient{
				ing("red lentils", 0.5, "cup"), ing("coconut milk", 0.5, "can"), ing("spinach", 1, "cup"),
				ing("curry powder", 1, "tbsp"), ing("onion", 0.5, "unit"), ing("rice", 0.5, "cup"),
			},
			Instructions: []string{
				"Cook the onion with curry powder.",
				"Add lentils, coconut milk and water and simmer for 20 minutes.",
				"Stir in the spinach and serve with rice.",
			},
			Nutrition:        common.Nutrition{Calories: 590, Protein: 22, Carbs: 80, Fat: 21},
			EstimatedCostUSD: 1.7,
		},
		{
			Name: "Spaghetti Bolognese", Type: common.MealDinner, Cuisine: "italian",
			Description: "Slow-simmered beef ragu over spaghetti.",
			Ingredients: []common.Ingredient{
				ing("spaghetti", 100, "g"), ing("ground beef", 120, "g"), ing("crushed tomatoes", 0.5, "can"),
				ing("onion", 0.5, "unit"), ing("garlic", 1, "clove"), ing("carrot", 0.5, "unit"),
			},
			Instructions: []string{
				"Brown the beef with onion, carrot and garlic.",
				"Add tomatoes and simmer for 30 minutes.",
				"Serve over cooked spaghetti.",
			},
			Nutrition:        common.Nutrition{Calories: 680, Protein: 36, Carbs: 78, Fat: 24},
			EstimatedCostUSD: 3.1,
		},
		{
			Name: "Lemon Herb Salmon with Quinoa", Type: common.MealDinner, Cuisine: "mediterranean", DietTag: "pescatarian",
			Description: "Roasted salmon fillet with herbed quinoa and green beans.",
			Ingredients: []common.Ingredient{
				ing("salmon fillet", 150, "g"), ing("quinoa", 0.5, "cup"), ing("green beans", 1, "cup"),
				ing("lemon", 0.5, "unit"), ing("olive oil", 1, "tbsp"),
			},
			Instructions: []string{
				"Roast the salmon with lemon and olive oil at 200C for 12 minutes.",
				"Cook the quinoa.",
				"Steam the green beans and serve together.",
			},
			Nutrition:        common.Nutrition{Calories: 610, Protein: 40, Carbs: 45, Fat: 28},
			EstimatedCostUSD: 3.5,
		},
		{
			Name: "Peanut Tofu Stir-Fry", Type: common.MealDinner, Cuisine: "asian", DietTag: "vegan",
			Description: "Crispy tofu and vegetables in a peanut sauce.",
			Ingredients: []common.Ingredient{
				ing("tofu", 150, "g"), ing("peanut butter", 2, "tbsp"), ing("soy sauce", 1, "tbsp"),
				ing("broccoli", 1, "cup"), ing("bell pepper", 0.5, "unit"), ing("rice", 0.5, "cup"),
			},
			Instructions: []string{
				"Press and cube the tofu, then fry until crisp.",
				"Stir-fry the vegetables.",
				"Toss everything with peanut butter thinned with soy sauce and serve over rice.",
			},
			Nutrition:        common.Nutrition{Calories: 640, Protein: 30, Carbs: 60, Fat: 32},
			EstimatedCostUSD: 2.2,
		},
	}
	for i := range meals {
		meals[i].Servings = 1
		meals[i].SourceTier = common.TierFallback
	}
	return meals
}
