package storage

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-nations/internal/game"
)

// LoadCatalog builds the country catalog from the assets under path. An
// empty path selects the built in countries.
func LoadCatalog(path string) (*game.Catalog, error) {
	if path == "" {
		return game.DefaultCatalog(), nil
	}

	store, err := NewFileStore[*game.Country](path)
	if err != nil {
		return nil, fmt.Errorf("loading countries: %w", err)
	}

	catalog, err := game.NewCatalog(store.GetAll())
	if err != nil {
		return nil, fmt.Errorf("building catalog from %s: %w", path, err)
	}

	slog.Info("loaded country catalog", "path", path, "countries", len(catalog.All()))
	return catalog, nil
}
