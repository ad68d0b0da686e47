package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ninthday/bruno/packages/core/parser"
)

// EnvDir is the conventional subdirectory holding named environments.
const EnvDir = "environments"

// Runtime holds the variable namespaces for one run. Environment and
// Process are assembled once before the first request and read-only during
// the walk; Collection starts empty and is mutated in place by request
// execution, so later requests observe values captured by earlier ones.
type Runtime struct {
	Environment map[string]string
	Process     map[string]string
	Collection  map[string]string
}

// Options configures Build.
type Options struct {
	CollectionRoot string
	Environment    string   // named environment, empty for none
	Overrides      []string // name=value pairs, applied in declaration order
}

// Build assembles a Runtime. Layering, lowest precedence first: ambient
// process variables, collection-root .env contents, the named environment's
// variables, explicit overrides.
func Build(opts Options) (*Runtime, error) {
	rt := &Runtime{
		Environment: make(map[string]string),
		Process:     loadAmbient(),
		Collection:  make(map[string]string),
	}

	dotenvPath := filepath.Join(opts.CollectionRoot, ".env")
	if _, err := os.Stat(dotenvPath); err == nil {
		vars, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
		for k, v := range vars {
			rt.Process[k] = v
		}
	}

	if opts.Environment != "" {
		vars, err := LoadEnvironment(opts.CollectionRoot, opts.Environment)
		if err != nil {
			return nil, err
		}
		rt.Environment = vars
	}

	if err := ApplyOverrides(rt.Environment, opts.Overrides); err != nil {
		return nil, err
	}

	return rt, nil
}

// LoadEnvironment reads environments/<name>.bru under the collection root.
// A requested environment that does not exist is a fatal configuration
// error, never a silent fallback.
func LoadEnvironment(collectionRoot, name string) (map[string]string, error) {
	file := name
	if !strings.HasSuffix(file, ".bru") {
		file += ".bru"
	}
	path := filepath.Join(collectionRoot, EnvDir, file)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("environment %q not found at %s", name, path)
	}

	environment, err := parser.ParseEnvironmentFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing environment %q: %w", name, err)
	}
	return environment.Variables, nil
}

// ApplyOverrides merges name=value pairs into vars. The first "=" is the
// delimiter, so values may themselves contain "=". A pair without "=" is a
// fatal configuration error.
func ApplyOverrides(vars map[string]string, overrides []string) error {
	for _, o := range overrides {
		name, value, found := strings.Cut(o, "=")
		if !found || name == "" {
			return fmt.Errorf("invalid variable override %q: expected name=value", o)
		}
		vars[name] = value
	}
	return nil
}

func loadAmbient() map[string]string {
	vars := make(map[string]string)
	for _, e := range os.Environ() {
		if k, v, found := strings.Cut(e, "="); found {
			vars[k] = v
		}
	}
	return vars
}
