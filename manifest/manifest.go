package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tarmac-project/resourcemock/middleware"
	"github.com/tarmac-project/resourcemock/request"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownResource is returned when a resource is not defined in the manifest.
	ErrUnknownResource = errors.New("resource not found in manifest")

	// ErrUnknownMethod is returned when a resource does not define the method.
	ErrUnknownMethod = errors.New("method not found in resource")

	// ErrInvalidDefinition is returned when a method definition cannot be used.
	ErrInvalidDefinition = errors.New("invalid method definition")

	// ErrParse wraps failures while decoding a YAML manifest.
	ErrParse = errors.New("failed to parse manifest")
)

// MethodDefinition describes one method of a resource as written in a
// manifest. Empty fields fall back to manifest-level values or request
// defaults.
type MethodDefinition struct {
	Method          string            `yaml:"method"`
	Path            string            `yaml:"path"`
	Host            string            `yaml:"host"`
	Params          map[string]any    `yaml:"params"`
	Headers         map[string]string `yaml:"headers"`
	BodyAttr        string            `yaml:"bodyAttr"`
	HeadersAttr     string            `yaml:"headersAttr"`
	QueryParamAlias map[string]string `yaml:"queryParamAlias"`
}

// Config holds the definitions a Manifest is built from.
type Config struct {
	// Host is used by every method that does not set its own host.
	Host string `yaml:"host"`

	// Resources maps resource names to their methods.
	Resources map[string]map[string]MethodDefinition `yaml:"resources"`

	// Middleware holds factories instantiated, in order, for every call.
	Middleware []middleware.Factory `yaml:"-"`
}

// Manifest is the registry of resource methods and middleware a client is
// configured with. It is read-only after construction except for Use.
type Manifest struct {
	host       string
	resources  map[string]map[string]MethodDefinition
	middleware []middleware.Factory
}

// New validates the configuration and builds a Manifest.
func New(cfg Config) (*Manifest, error) {
	for resource, methods := range cfg.Resources {
		for method, def := range methods {
			if def.Path == "" {
				return nil, fmt.Errorf("%w: %s.%s has no path", ErrInvalidDefinition, resource, method)
			}
			if def.Host == "" && cfg.Host == "" {
				return nil, fmt.Errorf("%w: %s.%s has no host", ErrInvalidDefinition, resource, method)
			}
		}
	}

	return &Manifest{
		host:       cfg.Host,
		resources:  cfg.Resources,
		middleware: append([]middleware.Factory(nil), cfg.Middleware...),
	}, nil
}

// Parse builds a Manifest from YAML. Middleware cannot be expressed in YAML
// and are added with Use.
//
//	host: https://api.example.com
//	resources:
//	  users:
//	    get:
//	      path: /users/{id}
func Parse(data []byte) (*Manifest, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return New(cfg)
}

// Load reads and parses a YAML manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Use appends middleware factories and returns the manifest.
func (m *Manifest) Use(factories ...middleware.Factory) *Manifest {
	m.middleware = append(m.middleware, factories...)
	return m
}

// Host returns the manifest-level host.
func (m *Manifest) Host() string { return m.host }

// Resources returns the sorted resource names.
func (m *Manifest) Resources() []string {
	names := make([]string, 0, len(m.resources))
	for name := range m.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateMethodDescriptor returns the descriptor for resource.method.
func (m *Manifest) CreateMethodDescriptor(resourceName, methodName string) (*request.MethodDescriptor, error) {
	methods, ok := m.resources[resourceName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resourceName)
	}
	def, ok := methods[methodName]
	if !ok {
		return nil, fmt.Errorf("%w: %q of resource %q", ErrUnknownMethod, methodName, resourceName)
	}

	host := def.Host
	if host == "" {
		host = m.host
	}

	return &request.MethodDescriptor{
		Host:            host,
		Path:            def.Path,
		Method:          def.Method,
		Params:          def.Params,
		Headers:         def.Headers,
		BodyAttr:        def.BodyAttr,
		HeadersAttr:     def.HeadersAttr,
		QueryParamAlias: def.QueryParamAlias,
	}, nil
}

// CreateMiddleware instantiates the middleware chain for one call.
func (m *Manifest) CreateMiddleware(p middleware.Params) []middleware.Middleware {
	chain := make([]middleware.Middleware, 0, len(m.middleware))
	for _, factory := range m.middleware {
		if mw := factory(p); mw != nil {
			chain = append(chain, mw)
		}
	}
	return chain
}
