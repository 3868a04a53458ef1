package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestResolver_ResolveWarImage(t *testing.T) {
	tests := map[string]struct {
		files   []string
		dirs    []string
		noDir   bool
		country string
		exp     string
	}{
		"country image present": {
			files:   []string{"russia_war.jpg", "spain_war.jpg"},
			country: "russia",
			exp:     "russia_war.jpg",
		},
		"falls back to another image": {
			files:   []string{"notes.txt", "generic.PNG"},
			country: "russia",
			exp:     "generic.PNG",
		},
		"unknown country falls back": {
			files:   []string{"spain_war.jpg"},
			country: "atlantis",
			exp:     "spain_war.jpg",
		},
		"directory named like the asset is skipped": {
			files:   []string{"other.gif"},
			dirs:    []string{"russia_war.jpg"},
			country: "russia",
			exp:     "other.gif",
		},
		"no images": {
			files:   []string{"readme.md"},
			country: "russia",
			exp:     "",
		},
		"missing directory": {
			noDir:   true,
			country: "russia",
			exp:     "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("img"), 0644); err != nil {
					t.Fatalf("writing %s: %v", f, err)
				}
			}
			for _, d := range tt.dirs {
				if err := os.Mkdir(filepath.Join(dir, d), 0755); err != nil {
					t.Fatalf("creating %s: %v", d, err)
				}
			}
			if tt.noDir {
				dir = filepath.Join(dir, "missing")
			}

			r := NewResolver(dir, game.DefaultCatalog(), WithPicker(func(int) int { return 0 }))
			got := r.ResolveWarImage(tt.country)

			exp := tt.exp
			if exp != "" {
				exp = filepath.Join(dir, exp)
			}
			testutil.AssertEqual(t, "image", got, exp)
		})
	}
}

func TestResolver_NoDirectoryConfigured(t *testing.T) {
	r := NewResolver("", game.DefaultCatalog())
	testutil.AssertEqual(t, "image", r.ResolveWarImage("russia"), "")
}
