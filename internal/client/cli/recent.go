package cli

import "context"

// Recent prints the recently viewed recipes, most recent first.
func (a *App) Recent(ctx context.Context) error {
	recipes, err := a.recipes.Recent(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}
	a.printRecipes(recipes)
	return nil
}

// Forget drops one recipe from the recent list without touching the recipe
// itself.
func (a *App) Forget(ctx context.Context) error {
	recipes, err := a.recipes.Recent(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}
	a.printRecipes(recipes)
	if len(recipes) == 0 {
		return nil
	}

	picked, err := a.pickRecipe("Enter recipe number to forget")
	if err != nil || picked == nil {
		return err
	}

	if err := a.recipes.Forget(ctx, picked.ID); err != nil {
		printlnFn("Error:", err.Error())
		return nil
	}

	printlnFn("Removed from recent")
	return nil
}
