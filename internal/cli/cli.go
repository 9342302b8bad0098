// Package cli implements the interactive menu. It owns all prompting
// and formatting and translates every service error into a printed
// message; it never terminates the process on an operation failure.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/brewstack/coffeecli/internal/services"
)

// App is the interactive coffee recipe manager.
type App struct {
	in  *bufio.Scanner
	out io.Writer

	users       services.UserService
	recipes     services.RecipeService
	reviews     services.ReviewService
	ingredients services.IngredientService

	currentUser uint
}

func New(in io.Reader, out io.Writer, users services.UserService, recipes services.RecipeService, reviews services.ReviewService, ingredients services.IngredientService) *App {
	return &App{
		in:          bufio.NewScanner(in),
		out:         out,
		users:       users,
		recipes:     recipes,
		reviews:     reviews,
		ingredients: ingredients,
	}
}

// Run loops on the menu until the user exits or input ends.
func (a *App) Run() {
	for {
		a.printf("\n=== Coffee Recipe Manager ===\n")
		a.printf("1. Register User\n")
		a.printf("2. Login (Set Current User)\n")
		a.printf("3. Create Recipe\n")
		a.printf("4. View Recipe\n")
		a.printf("5. Add Review\n")
		a.printf("6. List Ingredients\n")
		a.printf("7. Exit\n")

		choice, ok := a.prompt("Select an option: ")
		if !ok {
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			a.registerUser()
		case "2":
			a.login()
		case "3":
			a.createRecipe()
		case "4":
			a.viewRecipe()
		case "5":
			a.addReview()
		case "6":
			a.listIngredients()
		case "7":
			a.printf("Thank you for using Coffee Recipe Manager!\n")
			return
		default:
			a.printf("Invalid option, please try again\n")
		}
	}
}

func (a *App) registerUser() {
	a.printf("\n=== User Registration ===\n")
	username, ok := a.prompt("Enter username: ")
	if !ok {
		return
	}
	email, ok := a.prompt("Enter email: ")
	if !ok {
		return
	}

	userID, err := a.users.CreateUser(username, email)
	if err != nil {
		a.printf("Error registering user: %v\n", err)
		return
	}
	a.printf("User registered successfully! Your ID is: %d\n", userID)
}

func (a *App) login() {
	a.printf("\n=== User Login ===\n")
	id, ok := a.promptUint("Enter your user ID: ")
	if !ok {
		return
	}
	if _, err := a.users.GetUserByID(id); err != nil {
		a.printf("Error logging in: %v\n", err)
		return
	}
	a.currentUser = id
	a.printf("Logged in as user %d\n", id)
}

func (a *App) createRecipe() {
	if a.currentUser == 0 {
		a.printf("Please login first!\n")
		return
	}

	a.printf("\n=== Create New Recipe ===\n")
	payload := map[string]interface{}{}

	name, ok := a.prompt("Recipe name: ")
	if !ok {
		return
	}
	payload["name"] = name

	fields := []struct {
		key    string
		prompt string
	}{
		{"temperature", "Temperature (°C): "},
		{"pressure", "Pressure (bars): "},
		{"dose", "Coffee dose (g): "},
		{"yield", "Yield (g): "},
		{"time", "Extraction time (s): "},
	}
	for _, f := range fields {
		v, ok := a.promptFloat(f.prompt)
		if !ok {
			return
		}
		payload[f.key] = v
	}

	grind, ok := a.prompt("Grind size (fine/medium/coarse): ")
	if !ok {
		return
	}
	payload["grind_size"] = grind

	difficulty, ok := a.prompt("Difficulty level (beginner/intermediate/expert): ")
	if !ok {
		return
	}
	payload["difficulty_level"] = difficulty

	links := a.promptIngredients()
	if len(links) > 0 {
		payload["ingredients"] = links
	}

	recipeID, err := a.recipes.CreateRecipe(payload, a.currentUser)
	if err != nil {
		a.printf("Error creating recipe: %v\n", err)
		return
	}
	a.printf("Recipe created successfully! Recipe ID: %d\n", recipeID)
}

// promptIngredients collects optional ingredient links until the user
// leaves the id blank.
func (a *App) promptIngredients() []services.IngredientLink {
	var links []services.IngredientLink
	for {
		raw, ok := a.prompt("Ingredient ID to link (blank to finish): ")
		if !ok || strings.TrimSpace(raw) == "" {
			return links
		}
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			a.printf("Invalid ingredient ID\n")
			continue
		}
		qty, ok := a.promptFloat("Quantity: ")
		if !ok {
			return links
		}
		unit, ok := a.prompt("Unit (g/ml/...): ")
		if !ok {
			return links
		}
		links = append(links, services.IngredientLink{
			IngredientID: uint(id),
			Quantity:     qty,
			Unit:         unit,
		})
	}
}

func (a *App) viewRecipe() {
	a.printf("\n=== View Recipe ===\n")
	id, ok := a.promptUint("Enter recipe ID: ")
	if !ok {
		return
	}

	recipe, err := a.recipes.GetRecipe(id)
	if err != nil {
		a.printf("Error retrieving recipe: %v\n", err)
		return
	}
	if recipe == nil {
		a.printf("Recipe not found\n")
		return
	}

	a.printf("\nRecipe Details:\n")
	a.printf("Name: %v\n", recipe["name"])
	a.printf("Temperature: %v°C\n", recipe["temperature"])
	a.printf("Pressure: %v bars\n", recipe["pressure"])
	a.printf("Grind Size: %v\n", recipe["grind_size"])
	a.printf("Dose: %vg\n", recipe["dose"])
	a.printf("Yield: %vg\n", recipe["yield"])
	a.printf("Time: %vs\n", recipe["time"])
	a.printf("Difficulty: %v\n", recipe["difficulty_level"])

	if details, ok := recipe["ingredients"].([]models.RecipeIngredientDetail); ok && len(details) > 0 {
		a.printf("\nIngredients:\n")
		for _, d := range details {
			a.printf("- %s: %v %s\n", d.Name, d.Quantity, d.Unit)
		}
	}

	if reviews, ok := recipe["reviews"].([]models.Review); ok && len(reviews) > 0 {
		a.printf("\nReviews:\n")
		for _, r := range reviews {
			a.printf("Rating: %d/5\n", r.Rating)
			if r.Comment != "" {
				a.printf("Comment: %s\n", r.Comment)
			}
			a.printf("Date: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
			a.printf("---\n")
		}
	}
}

func (a *App) addReview() {
	if a.currentUser == 0 {
		a.printf("Please login first!\n")
		return
	}

	a.printf("\n=== Add Review ===\n")
	recipeID, ok := a.promptUint("Enter recipe ID: ")
	if !ok {
		return
	}
	rating, ok := a.promptInt("Rating (1-5): ")
	if !ok {
		return
	}
	comment, ok := a.prompt("Comment (optional): ")
	if !ok {
		return
	}

	reviewID, err := a.reviews.AddReview(recipeID, a.currentUser, rating, comment)
	if err != nil {
		a.printf("Error adding review: %v\n", err)
		return
	}
	a.printf("Review added successfully! Review ID: %d\n", reviewID)
}

func (a *App) listIngredients() {
	a.printf("\n=== Ingredients ===\n")
	ingredients, err := a.ingredients.GetIngredients()
	if err != nil {
		a.printf("Error listing ingredients: %v\n", err)
		return
	}
	for _, ing := range ingredients {
		a.printf("%d. %s (%s", ing.ID, ing.Name, ing.Type)
		if ing.Origin != "" {
			a.printf(", %s", ing.Origin)
		}
		if ing.RoastLevel != "" {
			a.printf(", %s roast", ing.RoastLevel)
		}
		a.printf(")\n")
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt prints the message and reads one line. ok is false when input
// has ended.
func (a *App) prompt(msg string) (string, bool) {
	a.printf("%s", msg)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *App) promptFloat(msg string) (float64, bool) {
	for {
		raw, ok := a.prompt(msg)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return v, true
		}
		a.printf("Please enter a number\n")
	}
}

func (a *App) promptInt(msg string) (int, bool) {
	for {
		raw, ok := a.prompt(msg)
		if !ok {
			return 0, false
		}
		v, err := strconv.Atoi(raw)
		if err == nil {
			return v, true
		}
		a.printf("Please enter a whole number\n")
	}
}

func (a *App) promptUint(msg string) (uint, bool) {
	for {
		raw, ok := a.prompt(msg)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err == nil {
			return uint(v), true
		}
		a.printf("Please enter a valid ID\n")
	}
}
