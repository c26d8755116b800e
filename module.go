package portico

// Module groups related adapters so they can be registered together.
// Modules can include other modules; included modules register first.
type Module struct {
	name       string
	adapters   []*Adapter
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string {
	return m.name
}

// Provide adds adapters to the module. Duplicate detection happens when the
// module is applied to a builder, not here.
func (m *Module) Provide(adapters ...*Adapter) *Module {
	m.adapters = append(m.adapters, adapters...)
	return m
}

// Include nests another module.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) flatten() []*Adapter {
	var out []*Adapter
	for _, sub := range m.submodules {
		out = append(out, sub.flatten()...)
	}
	return append(out, m.adapters...)
}
