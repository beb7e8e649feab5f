package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"cookbook/internal/database"
	"cookbook/internal/domain"
	"cookbook/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "cookbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Tag{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.Favorite{},
		&domain.ShoppingCart{},
		&domain.Follow{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM favorites")
	db.Exec("DELETE FROM shopping_carts")
	db.Exec("DELETE FROM follows")
	db.Exec("DELETE FROM recipe_ingredients")
	db.Exec("DELETE FROM recipe_tags")
	db.Exec("DELETE FROM recipes")
	db.Exec("DELETE FROM ingredients")
	db.Exec("DELETE FROM tags")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	// ================== INGREDIENTS ==================
	log.Println("Loading ingredients...")
	ingredientsPath := os.Getenv("INGREDIENTS_FILE")
	if ingredientsPath == "" {
		ingredientsPath = "data/ingredients.json"
	}
	raw, err := os.ReadFile(ingredientsPath)
	if err != nil {
		log.Fatal("Read ingredients file failed:", err)
	}
	var ingredients []domain.Ingredient
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		log.Fatal("Parse ingredients file failed:", err)
	}
	ingredientRepo := repository.NewIngredientRepository(db)
	if err := ingredientRepo.BulkCreate(ctx, ingredients); err != nil {
		log.Fatal("Insert ingredients failed:", err)
	}
	log.Printf("Loaded %d ingredients", len(ingredients))

	// ================== TAGS ==================
	log.Println("Creating tags...")
	tags := []domain.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	for i := range tags {
		db.Create(&tags[i])
	}

	// ================== USERS ==================
	log.Println("Creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@cookbook.local",
		Username:     "admin",
		FirstName:    "Site",
		LastName:     "Admin",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@cookbook.local / admin123")

	users := []domain.User{}
	demo := []struct{ email, username, first, last string }{
		{"alice@example.com", "alice", "Alice", "Baker"},
		{"bob@example.com", "bob", "Bob", "Cook"},
		{"carol@example.com", "carol", "Carol", "Chef"},
	}
	for _, d := range demo {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        d.email,
			Username:     d.username,
			FirstName:    d.first,
			LastName:     d.last,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
		}
		db.Create(&u)
		users = append(users, u)
	}

	// ================== RECIPES ==================
	log.Println("Creating recipes...")
	recipeRepo := repository.NewRecipeRepository(db)

	byName := make(map[string]int64, len(ingredients))
	for _, ing := range ingredients {
		byName[ing.Name] = ing.ID
	}

	seedRecipes := []struct {
		author      domain.User
		name        string
		text        string
		cookingTime int
		tagIDs      []int64
		rows        []repository.IngredientAmount
	}{
		{
			author:      users[0],
			name:        "Pancakes",
			text:        "Whisk everything together and fry on a hot pan.",
			cookingTime: 20,
			tagIDs:      []int64{tags[0].ID},
			rows: []repository.IngredientAmount{
				{IngredientID: byName["flour"], Amount: 200},
				{IngredientID: byName["milk"], Amount: 300},
				{IngredientID: byName["egg"], Amount: 2},
			},
		},
		{
			author:      users[1],
			name:        "Chicken rice bowl",
			text:        "Sear the chicken, cook the rice, combine.",
			cookingTime: 40,
			tagIDs:      []int64{tags[1].ID, tags[2].ID},
			rows: []repository.IngredientAmount{
				{IngredientID: byName["chicken breast"], Amount: 400},
				{IngredientID: byName["rice"], Amount: 250},
				{IngredientID: byName["olive oil"], Amount: 30},
			},
		},
		{
			author:      users[2],
			name:        "Tomato pasta",
			text:        "Boil the pasta, simmer the tomatoes with garlic.",
			cookingTime: 25,
			tagIDs:      []int64{tags[2].ID},
			rows: []repository.IngredientAmount{
				{IngredientID: byName["pasta"], Amount: 300},
				{IngredientID: byName["tomato"], Amount: 4},
				{IngredientID: byName["garlic"], Amount: 2},
			},
		},
	}
	for _, sr := range seedRecipes {
		r := &domain.Recipe{
			AuthorID:    sr.author.ID,
			Name:        sr.name,
			Image:       "/media/placeholder.png",
			Text:        sr.text,
			CookingTime: sr.cookingTime,
		}
		if err := recipeRepo.Create(ctx, r, sr.tagIDs, sr.rows); err != nil {
			log.Fatal("Seed recipe failed:", err)
		}
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin@cookbook.local / admin123")
	log.Println("Users: alice@example.com, bob@example.com, carol@example.com / user123")
}
