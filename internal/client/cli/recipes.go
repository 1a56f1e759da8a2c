package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/anavarro-dev/recetas/internal/client/models"
)

func (a *App) printRecipes(recipes []models.Recipe) {
	if len(recipes) == 0 {
		printlnFn("No recipes")
		a.lastShown = nil
		return
	}
	for i, r := range recipes {
		marker := " "
		if a.favorites.IsFavorite(r.ID) {
			marker = "*"
		}
		owner := ""
		if a.recipes.IsOwner(r) {
			owner = " (yours)"
		}
		printlnFn(fmt.Sprintf("%2d. %s %s%s", i+1, marker, r.Title, owner))
	}
	a.lastShown = recipes
}

// pickRecipe asks for an on-screen number from the last printed listing.
// Returns nil (without error) when nothing is listed or the input is not a
// valid number; the caller should simply return in that case.
func (a *App) pickRecipe(prompt string) (*models.Recipe, error) {
	if len(a.lastShown) == 0 {
		printlnFn("Nothing listed yet; run 'list', 'recent' or 'favs' first")
		return nil, nil
	}
	answer, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return nil, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 || n > len(a.lastShown) {
		printlnFn("Invalid recipe number")
		return nil, nil
	}
	r := a.lastShown[n-1]
	return &r, nil
}

// List fetches the community recipes with an optional title filter.
func (a *App) List(ctx context.Context) error {
	if _, err := a.recipes.List(ctx); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	term, err := getSimpleText(a.reader, "Filter by title (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	a.printRecipes(a.recipes.Search(term))
	return nil
}

// Show opens one recipe from the last listing. Opening it records a view in
// the recency record.
func (a *App) Show(ctx context.Context) error {
	picked, err := a.pickRecipe("Enter recipe number")
	if err != nil || picked == nil {
		return err
	}

	recipe, err := a.recipes.View(ctx, picked.ID)
	if err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	printlnFn("")
	printlnFn(recipe.Title)
	if a.favorites.IsFavorite(recipe.ID) {
		printlnFn("(favorite)")
	}
	printlnFn("Ingredients:")
	for _, ing := range recipe.Ingredients {
		printlnFn("  -", ing)
	}
	printlnFn("Instructions:")
	printlnFn(recipe.Instructions)
	return nil
}

// Add authors a new recipe.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	ingredients, err := GetLines(a.reader, "Ingredients", os.Stdout)
	if err != nil {
		return err
	}
	instructions, err := GetMultiline(a.reader, "Instructions", os.Stdout)
	if err != nil {
		return err
	}

	if title == "" || len(ingredients) == 0 || instructions == "" {
		printlnFn("Title, ingredients and instructions must not be empty")
		return nil
	}

	input := models.RecipeInput{Title: title, Ingredients: ingredients, Instructions: instructions}
	if err := a.recipes.Create(ctx, input); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	printlnFn("Recipe created")
	return nil
}

// Edit replaces one of the user's own recipes. The replacement is atomic:
// title, ingredients and instructions are all sent, whether changed or not.
func (a *App) Edit(ctx context.Context) error {
	picked, err := a.pickRecipe("Enter recipe number")
	if err != nil || picked == nil {
		return err
	}
	if !a.recipes.IsOwner(*picked) {
		printlnFn("Only your own recipes can be edited")
		return nil
	}

	title, err := getSimpleText(a.reader, "New title", os.Stdout)
	if err != nil {
		return err
	}
	ingredients, err := GetLines(a.reader, "New ingredients", os.Stdout)
	if err != nil {
		return err
	}
	instructions, err := GetMultiline(a.reader, "New instructions", os.Stdout)
	if err != nil {
		return err
	}

	if title == "" || len(ingredients) == 0 || instructions == "" {
		printlnFn("Title, ingredients and instructions must not be empty")
		return nil
	}

	input := models.RecipeInput{Title: title, Ingredients: ingredients, Instructions: instructions}
	if err := a.recipes.Update(ctx, picked.ID, input); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	printlnFn("Recipe updated")
	return nil
}

// Delete removes one of the user's own recipes. The identifier disappears
// from the recent list and the favorites snapshot immediately.
func (a *App) Delete(ctx context.Context) error {
	picked, err := a.pickRecipe("Enter recipe number")
	if err != nil || picked == nil {
		return err
	}
	if !a.recipes.IsOwner(*picked) {
		printlnFn("Only your own recipes can be deleted")
		return nil
	}

	if err := a.recipes.Delete(ctx, picked.ID); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	// drop it from the on-screen numbering too
	filtered := make([]models.Recipe, 0, len(a.lastShown))
	for _, r := range a.lastShown {
		if r.ID != picked.ID {
			filtered = append(filtered, r)
		}
	}
	a.lastShown = filtered

	printlnFn("Recipe deleted")
	return nil
}
