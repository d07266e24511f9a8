package registry

import (
	"fmt"
	"plugin"
	"strings"
	"unicode"

	"github.com/ragcore/engine/internal/ragerr"
	"github.com/ragcore/engine/internal/store"
)

// rawFactory is the unnamed function signature a plugin must export;
// plugin symbol lookups match on exact dynamic type, so the exported
// function cannot use the Factory type alias directly.
type rawFactory = func(config map[string]any) (store.Adapter, error)

// LoadCustomFactory imports a Go plugin (built with `go build
// -buildmode=plugin`) from path and looks up, in order, an exported
// symbol named "CreateAdapter", "Default", or a provider-specific
// "Create<Provider>Adapter". Other exported symbols are not searched: a
// plugin exposing none of these three names is rejected with an error
// naming them.
//
// This is deliberately built on the standard library's plugin package:
// none of the retrieval pack's dependencies offer a third-party dynamic
// code loading facility, and Go's own plugin mechanism is the idiomatic
// (if Linux/macOS-only) answer to "import a file and call an exported
// function from it" in this ecosystem.
func LoadCustomFactory(path, provider string) (Factory, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "open custom adapter plugin "+path, err)
	}

	candidates := []string{"CreateAdapter", "Default", "Create" + exportName(provider) + "Adapter"}
	for _, name := range candidates {
		sym, err := p.Lookup(name)
		if err != nil {
			continue
		}
		if f, ok := sym.(*rawFactory); ok {
			raw := *f
			return Factory(raw), nil
		}
		if f, ok := sym.(rawFactory); ok {
			return Factory(f), nil
		}
	}

	return nil, ragerr.New(ragerr.KindValidationError, fmt.Sprintf(
		"custom adapter %q exposes none of the accepted symbols: CreateAdapter, Default, Create%sAdapter",
		path, exportName(provider)))
}

// exportName renders provider as an exported Go identifier segment,
// e.g. "my-store" -> "MyStore".
func exportName(provider string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range provider {
		if r == '-' || r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
