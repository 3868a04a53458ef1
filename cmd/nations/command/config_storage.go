package command

import (
	"context"
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nations/internal/assets"
	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/storage"
	"github.com/pixil98/go-nations/internal/storage/sqlite"
)

type StorageConfig struct {
	DatabasePath  string `json:"database_path"`
	CountriesPath string `json:"countries_path"`
	WarImagesPath string `json:"war_images_path"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.DatabasePath == "" {
		el.Add(fmt.Errorf("database_path is required"))
	}
	el.Add(checkDir("countries_path", c.CountriesPath))
	el.Add(checkDir("war_images_path", c.WarImagesPath))

	return el.Err()
}

// checkDir accepts an empty path; the component falls back to its defaults.
func checkDir(name, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %q is not a directory", name, path)
	}
	return nil
}

func (c *StorageConfig) openStore(ctx context.Context) (*sqlite.Store, error) {
	return sqlite.Open(ctx, c.DatabasePath)
}

func (c *StorageConfig) loadCatalog() (*game.Catalog, error) {
	return storage.LoadCatalog(c.CountriesPath)
}

func (c *StorageConfig) buildResolver(catalog *game.Catalog) *assets.Resolver {
	return assets.NewResolver(c.WarImagesPath, catalog)
}
