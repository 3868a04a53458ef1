package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestLoadCatalog(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		noPath bool
		expIds []string
		expErr string
	}{
		"built in": {
			noPath: true,
			expIds: []string{"finland", "russia", "spain", "sweden", "turkey", "ukraine"},
		},
		"from assets": {
			files:  map[string]string{"atlantis.json": atlantis, "lemuria.json": lemuria},
			expIds: []string{"atlantis", "lemuria"},
		},
		"empty directory": {
			expErr: "at least one country",
		},
		"invalid country": {
			files:  map[string]string{"ghost.json": `{"version":1,"id":"ghost","spec":{"name":"Ghost"}}`},
			expErr: "income_per_second must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := ""
			if !tt.noPath {
				path = t.TempDir()
				for file, body := range tt.files {
					if err := os.WriteFile(filepath.Join(path, file), []byte(body), 0644); err != nil {
						t.Fatalf("writing %s: %v", file, err)
					}
				}
			}

			catalog, err := LoadCatalog(path)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			all := catalog.All()
			testutil.AssertEqual(t, "count", len(all), len(tt.expIds))
			for i, c := range all {
				testutil.AssertEqual(t, "id", c.Id, tt.expIds[i])
			}
		})
	}
}

func TestLoadCatalog_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "lemuria.json", lemuria)
	writeAsset(t, dir, "atlantis.json", atlantis)

	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lem := catalog.Get("lemuria")
	testutil.AssertEqual(t, "army cost", lem.ArmyCost(2), 3000.0)
	testutil.AssertEqual(t, "city cost", lem.CityCost(1), 5000.0)
	testutil.AssertEqual(t, "label", lem.Label(), "Lemuria")
	testutil.AssertEqual(t, "war asset", catalog.Get("atlantis").WarAsset, "atlantis.png")
}
