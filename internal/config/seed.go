package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

// Seed is the initial floor plan and stock list loaded from SEED_FILE.
type Seed struct {
	Tables      []models.Table
	Ingredients []models.Ingredient
}

type seedFile struct {
	Tables []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Capacity int    `yaml:"capacity"`
		Status   string `yaml:"status"`
	} `yaml:"tables"`
	Ingredients []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Unit     string  `yaml:"unit"`
		Stock    string  `yaml:"stock"`
		MinStock *string `yaml:"min_stock"`
	} `yaml:"ingredients"`
}

// LoadSeed reads a YAML seed file. Quantities are strings so they keep their
// exact decimal value.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	seed := &Seed{}
	for _, t := range f.Tables {
		status := models.TableStatusAvailable
		if t.Status != "" {
			if !models.IsValidTableStatus(t.Status) {
				return nil, fmt.Errorf("table %s: unknown status %q", t.ID, t.Status)
			}
			status = models.TableStatus(t.Status)
		}
		name := t.Name
		if name == "" {
			name = t.ID
		}
		seed.Tables = append(seed.Tables, models.Table{ID: t.ID, Name: name, Capacity: t.Capacity, Status: status})
	}
	for _, ing := range f.Ingredients {
		unit, ok := models.ParseIngredientUnit(ing.Unit)
		if !ok {
			return nil, fmt.Errorf("ingredient %s: unknown unit %q", ing.ID, ing.Unit)
		}
		stock := decimal.Zero
		if ing.Stock != "" {
			parsed, err := decimal.NewFromString(ing.Stock)
			if err != nil {
				return nil, fmt.Errorf("ingredient %s: bad stock %q", ing.ID, ing.Stock)
			}
			stock = parsed
		}
		minStock, err := utils.DecimalPtr(ing.MinStock)
		if err != nil {
			return nil, fmt.Errorf("ingredient %s: bad min_stock %q", ing.ID, *ing.MinStock)
		}
		seed.Ingredients = append(seed.Ingredients, models.Ingredient{
			ID: ing.ID, Name: ing.Name, Unit: unit, Stock: stock, MinStock: minStock,
		})
	}
	return seed, nil
}
