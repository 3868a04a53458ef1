package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-errors"
)

const (
	DefaultArmyUpgradeCost = 1000
	DefaultCityUpgradeCost = 5000
	DefaultWarAsset        = "war_default.jpg"
)

// Country is a static catalog entry. Countries never change at runtime.
type Country struct {
	Id              string  `json:"-"`
	Name            string  `json:"name"`
	Emoji           string  `json:"emoji"`
	IncomePerSecond float64 `json:"income_per_second"`
	ArmyUpgradeCost int     `json:"army_upgrade_cost"`
	CityUpgradeCost int     `json:"city_upgrade_cost"`
	WarAsset        string  `json:"war_asset"`
}

func (c *Country) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if c.IncomePerSecond <= 0 {
		el.Add(fmt.Errorf("income_per_second must be positive"))
	}
	if c.ArmyUpgradeCost < 0 {
		el.Add(fmt.Errorf("army_upgrade_cost must not be negative"))
	}
	if c.CityUpgradeCost < 0 {
		el.Add(fmt.Errorf("city_upgrade_cost must not be negative"))
	}

	return el.Err()
}

// Label is the short human form used in selection lists.
func (c *Country) Label() string {
	return strings.TrimSpace(c.Emoji + " " + c.Name)
}

// IncomeRate is the per-second income for a player with the given city level.
func (c *Country) IncomeRate(cityLevel int) float64 {
	return c.IncomePerSecond * float64(cityLevel)
}

// ArmyCost is the price of the next army level. Cost grows linearly with the level.
func (c *Country) ArmyCost(level int) float64 {
	return float64(c.ArmyUpgradeCost * level)
}

// CityCost is the price of the next city level.
func (c *Country) CityCost(level int) float64 {
	return float64(c.CityUpgradeCost * level)
}

// Catalog is the immutable set of playable countries.
type Catalog struct {
	byId  map[string]*Country
	order []*Country
}

// NewCatalog builds a catalog from id keyed countries. Missing upgrade costs and
// war assets fall back to the defaults.
func NewCatalog(countries map[string]*Country) (*Catalog, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one country")
	}

	c := &Catalog{byId: make(map[string]*Country, len(countries))}
	for id, country := range countries {
		if country == nil {
			return nil, fmt.Errorf("country %q is nil", id)
		}
		cp := *country
		cp.Id = id
		if cp.ArmyUpgradeCost == 0 {
			cp.ArmyUpgradeCost = DefaultArmyUpgradeCost
		}
		if cp.CityUpgradeCost == 0 {
			cp.CityUpgradeCost = DefaultCityUpgradeCost
		}
		if cp.WarAsset == "" {
			cp.WarAsset = DefaultWarAsset
		}
		if err := cp.Validate(); err != nil {
			return nil, fmt.Errorf("country %q: %w", id, err)
		}
		c.byId[id] = &cp
		c.order = append(c.order, &cp)
	}
	slices.SortFunc(c.order, func(a, b *Country) int {
		return strings.Compare(a.Id, b.Id)
	})

	return c, nil
}

// DefaultCatalog returns the built in set of nations.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(map[string]*Country{
		"russia":  {Name: "Россия", Emoji: "🇷🇺", IncomePerSecond: 10, WarAsset: "russia_war.jpg"},
		"ukraine": {Name: "Украина", Emoji: "🇺🇦", IncomePerSecond: 8, WarAsset: "ukraine_war.jpg"},
		"turkey":  {Name: "Турция", Emoji: "🇹🇷", IncomePerSecond: 7, WarAsset: "turkey_war.jpg"},
		"sweden":  {Name: "Швеция", Emoji: "🇸🇪", IncomePerSecond: 6, WarAsset: "sweden_war.jpg"},
		"finland": {Name: "Финляндия", Emoji: "🇫🇮", IncomePerSecond: 5, WarAsset: "finland_war.jpg"},
		"spain":   {Name: "Испания", Emoji: "🇪🇸", IncomePerSecond: 9, WarAsset: "spain_war.jpg"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the country with the given id, or nil.
func (c *Catalog) Get(id string) *Country {
	return c.byId[id]
}

// All returns every country ordered by id.
func (c *Catalog) All() []*Country {
	return slices.Clone(c.order)
}
