package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerBlockTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerBlockTemplates registers the templates for marker
// implementation blocks. A block is a tag-method stub plus one
// conformance assertion; generic types get the assertion wrapped in a
// discarded generic function so the type can be instantiated with its
// own parameter list.
func (tr *TemplateRegistry) registerBlockTemplates() {
	// Sealing method stub. BareParams is "[T, U]" for generic types and
	// empty otherwise, so the receiver instantiates the type either way.
	tr.templates["tag-method"] = `func ({{.TypeName}}{{.BareParams}}) {{.TagMethod}}() {}`

	// Compile-time conformance assertion for non-generic types.
	tr.templates["assertion"] = `var _ {{.MarkerPath}} = (*{{.TypeName}})(nil)`

	// Conformance assertion for generic types. The blank function
	// carries the declaration's full parameter list, constraints exactly
	// as written, and instantiates the type with the bare list inside.
	tr.templates["generic-assertion"] = `func _{{.DeclaredParams}}() {
	var _ {{.MarkerPath}} = (*{{.TypeName}}{{.BareParams}})(nil)
}`
}

// Global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
