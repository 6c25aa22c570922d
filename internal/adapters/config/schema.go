package config

// Swatchfile represents the structure of the swatch.yaml configuration file.
type Swatchfile struct {
	Version  string                 `yaml:"version"`
	Root     string                 `yaml:"root"`
	Patterns []string               `yaml:"patterns"`
	Ignore   []string               `yaml:"ignore"`
	Output   *OutputDTO             `yaml:"output"`
	Resolve  *ResolveDTO            `yaml:"resolve"`
	Dialects map[string]*DialectDTO `yaml:"dialects"`
}

// OutputDTO represents the output section of swatch.yaml.
type OutputDTO struct {
	OutDir         string `yaml:"outDir"`
	NamedExports   bool   `yaml:"namedExports"`
	DeclarationMap bool   `yaml:"declarationMap"`
}

// ResolveDTO represents the resolve section of swatch.yaml.
type ResolveDTO struct {
	Alias            map[string]string `yaml:"alias"`
	LookupDirs       []string          `yaml:"lookupDirs"`
	IgnoreSpecifiers []string          `yaml:"ignoreSpecifiers"`
}

// DialectDTO represents one dialect compiler entry in swatch.yaml.
type DialectDTO struct {
	Command []string `yaml:"command"`
}
