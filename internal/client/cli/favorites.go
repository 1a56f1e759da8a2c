package cli

import "context"

// Favorites re-fetches the server's favorite set and prints it.
func (a *App) Favorites(ctx context.Context) error {
	if err := a.favorites.Refresh(ctx); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}
	a.printRecipes(a.favorites.Recipes())
	return nil
}

// ToggleFavorite flips the favorite status of one recipe from the last
// listing. The server decides the resulting set; we display what it said.
func (a *App) ToggleFavorite(ctx context.Context) error {
	picked, err := a.pickRecipe("Enter recipe number")
	if err != nil || picked == nil {
		return err
	}

	if err := a.favorites.Toggle(ctx, picked.ID); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	if a.favorites.IsFavorite(picked.ID) {
		printlnFn("Added to favorites:", picked.Title)
	} else {
		printlnFn("Removed from favorites:", picked.Title)
	}
	return nil
}
