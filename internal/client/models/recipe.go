// Package models defines the plain data types exchanged between the gateway,
// the services, and the CLI.
package models

// Recipe is a community recipe as served by the remote API. A recipe is
// owned by exactly one user; OwnerID never changes for the lifetime of the
// recipe. Edits replace title, ingredients and instructions as a whole.
type Recipe struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	OwnerID      string   `json:"ownerId"`
}

// RecipeInput is the request body for creating or replacing a recipe.
type RecipeInput struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}
