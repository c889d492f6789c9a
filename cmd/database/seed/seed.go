package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/ingredient"

	"gorm.io/gorm"
)

// SeedIngredients loads the ingredient catalog fixture (a JSON array of
// {"name": ..., "measurement_unit": ...} objects) into the database.
// Already-present (name, unit) pairs are skipped.
func SeedIngredients(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var items []domain.IngredientResponse
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	created, err := ingredientService.ImportIngredients(context.Background(), items)
	if err != nil {
		return err
	}

	fmt.Printf("Ingredient seed complete: %d created, %d skipped\n", created, len(items)-created)
	return nil
}
