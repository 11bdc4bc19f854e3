package dependencies

import (
	"fmt"
	"regexp"
)

const dependencyPinTemplateConstant = "%s==%s"

var dependencyPinPattern = regexp.MustCompile(`([a-zA-Z0-9_-]+)==([0-9.]+)`)

// Dependency is a pinned third-party distribution.
type Dependency struct {
	Name    string
	Version string
}

// String renders the dependency as a requirement pin.
func (dependency Dependency) String() string {
	return fmt.Sprintf(dependencyPinTemplateConstant, dependency.Name, dependency.Version)
}

// ParseDependencyTree extracts every pin from dependency tree output in the order printed.
// Nested and repeated entries are kept, so a shared transitive dependency appears once per parent.
func ParseDependencyTree(output string) []Dependency {
	matches := dependencyPinPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return nil
	}

	parsedDependencies := make([]Dependency, 0, len(matches))
	for _, match := range matches {
		parsedDependencies = append(parsedDependencies, Dependency{Name: match[1], Version: match[2]})
	}
	return parsedDependencies
}
