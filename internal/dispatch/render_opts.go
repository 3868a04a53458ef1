package dispatch

import "golang.org/x/text/language"

type RendererOpt func(*Renderer)

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) RendererOpt {
	return func(r *Renderer) {
		r.lang = tag
	}
}
