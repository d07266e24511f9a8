package chunk

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageRegistry maps file extensions to language configurations and
// their tree-sitter grammars. Extensions are matched case-insensitively.
type LanguageRegistry struct {
	mu          sync.RWMutex
	configs     map[string]*LanguageConfig
	extToLang   map[string]string
	tsLanguages map[string]*sitter.Language
}

// NewLanguageRegistry builds a registry with every first-class language
// named in the chunk sizing/boundary tables registered.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		configs:     make(map[string]*LanguageConfig),
		extToLang:   make(map[string]string),
		tsLanguages: make(map[string]*sitter.Language),
	}
	r.registerGo()
	r.registerTypeScript()
	r.registerJavaScript()
	r.registerPython()
	r.registerRust()
	r.registerJava()
	r.registerRuby()
	r.registerC()
	r.registerCpp()
	r.registerBash()
	r.registerHTML()
	r.registerCSS()
	return r
}

// GetByExtension returns the language config for a file extension,
// normalizing case and a missing leading dot.
func (r *LanguageRegistry) GetByExtension(ext string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	cfg, ok := r.configs[name]
	return cfg, ok
}

func (r *LanguageRegistry) GetByName(name string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}

func (r *LanguageRegistry) GetTreeSitterLanguage(name string) (*sitter.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.tsLanguages[name]
	return lang, ok
}

func (r *LanguageRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

func (r *LanguageRegistry) registerLanguage(cfg *LanguageConfig, tsLang *sitter.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.Name] = cfg
	r.tsLanguages[cfg.Name] = tsLang
	for _, ext := range cfg.Extensions {
		r.extToLang[ext] = cfg.Name
	}
}

func (r *LanguageRegistry) registerGo() {
	r.registerLanguage(&LanguageConfig{
		Name:       "go",
		Extensions: []string{".go"},
		BoundaryTypes: []string{
			"function_declaration", "method_declaration", "type_declaration", "const_declaration", "var_declaration",
		},
		NameField: "name",
	}, golang.GetLanguage())
}

func (r *LanguageRegistry) registerTypeScript() {
	ts := &LanguageConfig{
		Name:       "typescript",
		Extensions: []string{".ts"},
		BoundaryTypes: []string{
			"function_declaration", "method_definition", "class_declaration", "interface_declaration",
			"type_alias_declaration", "lexical_declaration", "variable_declaration", "import_statement",
		},
		NameField: "name",
	}
	r.registerLanguage(ts, typescript.GetLanguage())

	tsx := &LanguageConfig{
		Name:          "tsx",
		Extensions:    []string{".tsx"},
		BoundaryTypes: append(append([]string{}, ts.BoundaryTypes...), "jsx_element"),
		NameField:     "name",
	}
	r.registerLanguage(tsx, tsxLanguage())
}

func tsxLanguage() *sitter.Language { return tsx.GetLanguage() }

func (r *LanguageRegistry) registerJavaScript() {
	js := &LanguageConfig{
		Name:       "javascript",
		Extensions: []string{".js", ".mjs", ".cjs"},
		// lexical_declaration/variable_declaration are deliberately
		// excluded: a top-level "const b = () => {}" is a
		// lexical_declaration wrapping an arrow_function, and boundary
		// extraction only ever emits the outermost boundary type. If
		// both were listed the inner arrow_function would never
		// surface as its own chunk, which is the useful unit here.
		BoundaryTypes: []string{
			"function_declaration", "function", "arrow_function", "method_definition", "class_declaration",
			"import_statement",
		},
		NameField: "name",
	}
	r.registerLanguage(js, javascript.GetLanguage())

	jsx := &LanguageConfig{
		Name:          "jsx",
		Extensions:    []string{".jsx"},
		BoundaryTypes: append(append([]string{}, js.BoundaryTypes...), "jsx_element"),
		NameField:     "name",
	}
	r.registerLanguage(jsx, javascript.GetLanguage())
}

func (r *LanguageRegistry) registerPython() {
	r.registerLanguage(&LanguageConfig{
		Name:          "python",
		Extensions:    []string{".py"},
		BoundaryTypes: []string{"function_definition", "class_definition", "import_statement", "import_from_statement"},
		NameField:     "name",
	}, python.GetLanguage())
}

func (r *LanguageRegistry) registerRust() {
	r.registerLanguage(&LanguageConfig{
		Name:       "rust",
		Extensions: []string{".rs"},
		BoundaryTypes: []string{
			"function_item", "impl_item", "struct_item", "enum_item", "trait_item", "mod_item", "const_item",
		},
		NameField: "name",
	}, rust.GetLanguage())
}

func (r *LanguageRegistry) registerJava() {
	r.registerLanguage(&LanguageConfig{
		Name:       "java",
		Extensions: []string{".java"},
		BoundaryTypes: []string{
			"method_declaration", "class_declaration", "interface_declaration", "constructor_declaration", "field_declaration",
		},
		NameField: "name",
	}, java.GetLanguage())
}

func (r *LanguageRegistry) registerRuby() {
	r.registerLanguage(&LanguageConfig{
		Name:          "ruby",
		Extensions:    []string{".rb"},
		BoundaryTypes: []string{"method", "class", "module"},
		NameField:     "name",
	}, ruby.GetLanguage())
}

func (r *LanguageRegistry) registerC() {
	r.registerLanguage(&LanguageConfig{
		Name:          "c",
		Extensions:    []string{".c", ".h"},
		BoundaryTypes: []string{"function_definition", "struct_specifier", "declaration"},
		NameField:     "declarator",
	}, c.GetLanguage())
}

func (r *LanguageRegistry) registerCpp() {
	r.registerLanguage(&LanguageConfig{
		Name:          "cpp",
		Extensions:    []string{".cpp", ".cc", ".hpp", ".hh"},
		BoundaryTypes: []string{"function_definition", "class_specifier", "struct_specifier", "namespace_definition"},
		NameField:     "declarator",
	}, cpp.GetLanguage())
}

func (r *LanguageRegistry) registerBash() {
	r.registerLanguage(&LanguageConfig{
		Name:          "bash",
		Extensions:    []string{".sh", ".bash"},
		BoundaryTypes: []string{"function_definition"},
		NameField:     "name",
	}, bash.GetLanguage())
}

func (r *LanguageRegistry) registerCSS() {
	r.registerLanguage(&LanguageConfig{
		Name:          "css",
		Extensions:    []string{".css"},
		BoundaryTypes: []string{"rule_set", "media_statement", "keyframes_statement", "at_rule"},
		// CSS's grammar has no "name" field on a rule_set; the selector
		// itself is the closest thing to a name and extractName's
		// identifier/parent fallbacks don't apply cleanly here, so
		// boundaries surface with an empty Name rather than a guessed one.
		NameField: "",
	}, css.GetLanguage())
}

func (r *LanguageRegistry) registerHTML() {
	r.registerLanguage(&LanguageConfig{
		Name:          "html",
		Extensions:    []string{".html", ".htm"},
		BoundaryTypes: []string{"element", "script_element", "style_element"},
		NameField:     "tag_name",
	}, html.GetLanguage())
}

var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the package-level language registry used when
// a caller does not supply its own.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
