package dispatch

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-nations/internal/game"
	"github.com/pixil98/go-nations/internal/transfer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Renderer expands the named message templates.
type Renderer struct {
	catalog *game.Catalog
	lang    language.Tag
	printer *message.Printer
	tmpl    *template.Template
}

func NewRenderer(catalog *game.Catalog, opts ...RendererOpt) (*Renderer, error) {
	r := &Renderer{
		catalog: catalog,
		lang:    language.English,
	}

	for _, opt := range opts {
		opt(r)
	}
	r.printer = message.NewPrinter(r.lang)

	funcs := sprig.TxtFuncMap()
	funcs["money"] = r.Money
	funcs["country"] = r.Country
	funcs["commission"] = func() string { return r.printer.Sprintf("%.0f", (1-transfer.NetShare)*100) }
	funcs["moneyFloor"] = func() string { return r.Money(game.MoneyFloor) }

	root := template.New("").Funcs(funcs)
	for name, text := range templates {
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	r.tmpl = root

	return r, nil
}

// Render expands template name with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Money formats an amount with digit grouping and at most two decimals.
func (r *Renderer) Money(v float64) string {
	return r.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Country returns the display label of a country id, or the id itself when
// the catalog doesn't know it.
func (r *Renderer) Country(id string) string {
	if c := r.catalog.Get(id); c != nil {
		return c.Label()
	}
	return id
}
