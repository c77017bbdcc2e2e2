// Package project locates and manages a texenv project: its texenv.toml
// configuration, its requirements file, and the .texenv directory holding
// the isolated TeX tree.
package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/texenv/texenv/pkg/errors"
	"github.com/texenv/texenv/pkg/requirements"
)

const (
	// ConfigFilename is the project configuration file at the root.
	ConfigFilename = "texenv.toml"
	// EnvDirName is the directory holding the isolated environment.
	EnvDirName = ".texenv"
)

// Engines supported for compilation.
var Engines = []string{"pdflatex", "xelatex", "lualatex", "latex"}

// Config is the contents of texenv.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
}

// ProjectConfig holds per-project compilation settings.
type ProjectConfig struct {
	TexFile   string `toml:"texfile"`
	OutputDir string `toml:"output_dir"`
	Engine    string `toml:"engine"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{Project: ProjectConfig{
		TexFile:   "main.tex",
		OutputDir: "build",
		Engine:    "pdflatex",
	}}
}

// ValidEngine reports whether name is a supported LaTeX engine.
func ValidEngine(name string) bool {
	for _, e := range Engines {
		if e == name {
			return true
		}
	}
	return false
}

// Project is a loaded texenv project.
type Project struct {
	Root   string
	Config Config
}

// Find walks up from dir looking for texenv.toml and returns the project
// root. It fails with ErrCodeNoProject when no config is found.
func Find(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(cur, ConfigFilename)); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", errors.New(errors.ErrCodeNoProject,
				"no %s found; run 'texenv init' to create a project", ConfigFilename)
		}
		cur = parent
	}
}

// Load reads the project configuration at root.
func Load(root string) (*Project, error) {
	path := filepath.Join(root, ConfigFilename)
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNoProject, "no %s found at %s", ConfigFilename, root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
	}

	// Fill defaults for fields the file omits.
	def := DefaultConfig().Project
	if cfg.Project.TexFile == "" {
		cfg.Project.TexFile = def.TexFile
	}
	if cfg.Project.OutputDir == "" {
		cfg.Project.OutputDir = def.OutputDir
	}
	if cfg.Project.Engine == "" {
		cfg.Project.Engine = def.Engine
	}

	return &Project{Root: root, Config: cfg}, nil
}

// SaveConfig writes the project configuration back to texenv.toml.
func (p *Project) SaveConfig() error {
	f, err := os.Create(filepath.Join(p.Root, ConfigFilename))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "writing %s", ConfigFilename)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(p.Config); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "writing %s", ConfigFilename)
	}
	return nil
}

// EnvDir returns the path of the isolated environment directory.
func (p *Project) EnvDir() string {
	return filepath.Join(p.Root, EnvDirName)
}

// TexmfDir returns the local TEXMFHOME tree.
func (p *Project) TexmfDir() string {
	return filepath.Join(p.EnvDir(), "texmf")
}

// PackagesDir returns the directory packages install into.
func (p *Project) PackagesDir() string {
	return filepath.Join(p.TexmfDir(), "tex", "latex")
}

// CacheDir returns the environment's cache directory.
func (p *Project) CacheDir() string {
	return filepath.Join(p.EnvDir(), "cache")
}

// RequirementsPath returns the path of the requirements file.
func (p *Project) RequirementsPath() string {
	return filepath.Join(p.Root, requirements.DefaultFilename)
}

// Store returns the requirements store for this project.
func (p *Project) Store() *requirements.Store {
	return requirements.NewStore(p.RequirementsPath())
}

// EnvExists reports whether the isolated environment has been created.
func (p *Project) EnvExists() bool {
	if _, err := os.Stat(p.TexmfDir()); err != nil {
		return false
	}
	return true
}

// RemoveEnv deletes the isolated environment directory. The configuration
// and requirements file are left untouched.
func (p *Project) RemoveEnv() error {
	if !p.EnvExists() {
		return errors.New(errors.ErrCodeNoEnvironment, "no environment found at %s", p.EnvDir())
	}
	return os.RemoveAll(p.EnvDir())
}

// Init scaffolds a new project at root: the environment directory tree,
// an initial texenv.toml, and an initial requirements file. It fails if
// the environment already exists. Existing config or requirements files
// are preserved.
func Init(root string, cfg Config) (*Project, error) {
	p := &Project{Root: root, Config: cfg}
	if p.EnvExists() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "environment already exists at %s", p.EnvDir())
	}

	for _, dir := range []string{
		p.PackagesDir(),
		filepath.Join(p.EnvDir(), "bin"),
		p.CacheDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreWrite, err, "creating %s", dir)
		}
	}

	if _, err := os.Stat(filepath.Join(root, ConfigFilename)); os.IsNotExist(err) {
		if err := p.SaveConfig(); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(p.RequirementsPath()); os.IsNotExist(err) {
		if err := writeInitialRequirements(p.RequirementsPath()); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func writeInitialRequirements(path string) error {
	content := `# LaTeX package requirements
# Add packages one per line, optionally with versions
# Example:
# amsmath
# graphicx
# hyperref
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "writing %s", path)
	}
	return nil
}
