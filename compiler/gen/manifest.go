package gen

import (
	"slices"

	"github.com/syssam/erdgen/compiler/naming"
)

// Module names of the manifest.
const (
	ModuleEntities     = "entities"
	ModuleRepositories = "repositories"
	ModuleUseCases     = "usecases"
	ModuleControllers  = "controllers"
)

// Manifest lists the classes each framework module has to register. It is
// written next to the generated resources and replaces any patching of the
// module source files.
type Manifest struct {
	Modules []*Module `json:"modules" yaml:"modules"`
}

// Module is a framework module and its registered classes in sorted order.
type Module struct {
	Name    string   `json:"name" yaml:"name"`
	Classes []string `json:"classes" yaml:"classes"`
}

// Module returns the module with the given name.
func (m *Manifest) Module(name string) (*Module, bool) {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod, true
		}
	}
	return nil, false
}

// BuildManifest builds the module manifest of a normalized schema. Junction
// tables only register as entities.
func BuildManifest(s *Schema, inf naming.Inflector) *Manifest {
	var entities, repos, usecases, controllers []string
	for _, t := range s.Tables {
		entities = append(entities, t.ClassName(inf))
		if t.Junction {
			continue
		}
		base := naming.ToClassName(t.Name)
		repos = append(repos, base+"Repository")
		usecases = append(usecases, base+"UseCases")
		controllers = append(controllers, base+"Controller")
	}
	m := &Manifest{}
	for _, mod := range []*Module{
		{Name: ModuleEntities, Classes: entities},
		{Name: ModuleRepositories, Classes: repos},
		{Name: ModuleUseCases, Classes: usecases},
		{Name: ModuleControllers, Classes: controllers},
	} {
		if mod.Classes == nil {
			mod.Classes = []string{}
		}
		slices.Sort(mod.Classes)
		mod.Classes = slices.Compact(mod.Classes)
		m.Modules = append(m.Modules, mod)
	}
	return m
}
