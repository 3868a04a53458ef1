package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCountry_Validate(t *testing.T) {
	tests := map[string]struct {
		country *Country
		expErrs []string
	}{
		"valid": {
			country: &Country{Name: "Atlantis", IncomePerSecond: 1},
		},
		"missing name": {
			country: &Country{IncomePerSecond: 1},
			expErrs: []string{"name is required"},
		},
		"no income": {
			country: &Country{Name: "Atlantis"},
			expErrs: []string{"income_per_second must be positive"},
		},
		"negative costs": {
			country: &Country{Name: "Atlantis", IncomePerSecond: 1, ArmyUpgradeCost: -1, CityUpgradeCost: -1},
			expErrs: []string{"army_upgrade_cost must not be negative", "city_upgrade_cost must not be negative"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.country.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, exp := range tt.expErrs {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}

func TestCountry_Costs(t *testing.T) {
	russia := DefaultCatalog().Get("russia")

	testutil.AssertEqual(t, "label", russia.Label(), "🇷🇺 Россия")
	testutil.AssertEqual(t, "income city 1", russia.IncomeRate(1), 10.0)
	testutil.AssertEqual(t, "income city 3", russia.IncomeRate(3), 30.0)
	testutil.AssertEqual(t, "army 1", russia.ArmyCost(1), 1000.0)
	testutil.AssertEqual(t, "army 4", russia.ArmyCost(4), 4000.0)
	testutil.AssertEqual(t, "city 2", russia.CityCost(2), 10000.0)
	testutil.AssertEqual(t, "no emoji", (&Country{Name: "Atlantis"}).Label(), "Atlantis")
}

func TestNewCatalog(t *testing.T) {
	tests := map[string]struct {
		countries map[string]*Country
		expErr    string
	}{
		"empty": {
			expErr: "at least one country",
		},
		"nil entry": {
			countries: map[string]*Country{"atlantis": nil},
			expErr:    `country "atlantis" is nil`,
		},
		"invalid entry": {
			countries: map[string]*Country{"atlantis": {Name: "Atlantis"}},
			expErr:    `country "atlantis": income_per_second must be positive`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalog(tt.countries)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestCatalog_Defaults(t *testing.T) {
	src := &Country{Name: "Lemuria", IncomePerSecond: 2, CityUpgradeCost: 700}
	c, err := NewCatalog(map[string]*Country{"lemuria": src, "atlantis": {Name: "Atlantis", IncomePerSecond: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := c.All()
	testutil.AssertEqual(t, "count", len(all), 2)
	testutil.AssertEqual(t, "sorted", all[0].Id, "atlantis")

	lem := c.Get("lemuria")
	testutil.AssertEqual(t, "id", lem.Id, "lemuria")
	testutil.AssertEqual(t, "army default", lem.ArmyUpgradeCost, DefaultArmyUpgradeCost)
	testutil.AssertEqual(t, "city kept", lem.CityUpgradeCost, 700)
	testutil.AssertEqual(t, "asset default", lem.WarAsset, DefaultWarAsset)
	testutil.AssertEqual(t, "source untouched", src.ArmyUpgradeCost, 0)
	testutil.AssertEqual(t, "unknown", c.Get("mu") == nil, true)

	all[0] = nil
	testutil.AssertEqual(t, "copy", c.All()[0] != nil, true)
}
