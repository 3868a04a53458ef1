// Package assets locates war images on disk. The platform binding uploads
// them; this package only hands back a path.
package assets

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pixil98/go-nations/internal/game"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Resolver maps countries to war images in one directory.
type Resolver struct {
	dir     string
	catalog *game.Catalog
	pick    func(n int) int
}

func NewResolver(dir string, catalog *game.Catalog, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		dir:     dir,
		catalog: catalog,
		pick:    rand.IntN,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolveWarImage returns the country's war image, any image in the
// directory when that one is missing, or "" when there are none.
func (r *Resolver) ResolveWarImage(countryId string) string {
	if r.dir == "" {
		return ""
	}

	if c := r.catalog.Get(countryId); c != nil && c.WarAsset != "" {
		path := filepath.Join(r.dir, c.WarAsset)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	images := r.images()
	if len(images) == 0 {
		slog.Warn("no war images available", "dir", r.dir)
		return ""
	}
	return filepath.Join(r.dir, images[r.pick(len(images))])
}

func (r *Resolver) images() []string {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		slog.Warn("reading war images", "dir", r.dir, "error", err)
		return nil
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
			images = append(images, e.Name())
		}
	}
	return images
}
