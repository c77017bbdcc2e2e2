package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitScaffolding(t *testing.T) {
	root := t.TempDir()
	p, err := Init(root, DefaultConfig())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, path := range []string{
		p.PackagesDir(),
		filepath.Join(p.EnvDir(), "bin"),
		p.CacheDir(),
	} {
		if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
			t.Errorf("missing directory %s", path)
		}
	}
	for _, path := range []string{
		filepath.Join(root, ConfigFilename),
		p.RequirementsPath(),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing file %s", path)
		}
	}
	if !p.EnvExists() {
		t.Error("EnvExists() = false after Init")
	}
}

func TestInitFailsIfEnvironmentExists(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(root, DefaultConfig()); err == nil {
		t.Error("second Init should fail")
	}
}

func TestInitPreservesExistingConfig(t *testing.T) {
	root := t.TempDir()
	custom := "[project]\ntexfile = \"paper.tex\"\n"
	if err := os.WriteFile(filepath.Join(root, ConfigFilename), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Init(root, DefaultConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	p, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Config.Project.TexFile != "paper.tex" {
		t.Errorf("TexFile = %q, want preserved custom value", p.Config.Project.TexFile)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFilename), []byte("[project]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig().Project
	if p.Config.Project != def {
		t.Errorf("Config = %+v, want defaults %+v", p.Config.Project, def)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := &Project{Root: root, Config: Config{Project: ProjectConfig{
		TexFile:   "thesis.tex",
		OutputDir: "out",
		Engine:    "xelatex",
	}}}
	if err := p.SaveConfig(); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Config.Project != p.Config.Project {
		t.Errorf("round trip = %+v, want %+v", loaded.Config.Project, p.Config.Project)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFilename), []byte("[project]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "chapters", "part1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	// Resolve symlinks so the comparison survives /tmp -> /private/tmp.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("Find() = %s, want %s", got, root)
	}
}

func TestFindNoProject(t *testing.T) {
	if _, err := Find(t.TempDir()); err == nil {
		t.Error("Find outside a project should fail")
	}
}

func TestRemoveEnv(t *testing.T) {
	root := t.TempDir()
	p, err := Init(root, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := p.RemoveEnv(); err != nil {
		t.Fatalf("RemoveEnv: %v", err)
	}
	if p.EnvExists() {
		t.Error("environment should be gone")
	}
	// Config and requirements survive a clean.
	if _, err := os.Stat(filepath.Join(root, ConfigFilename)); err != nil {
		t.Error("texenv.toml should survive RemoveEnv")
	}
	if err := p.RemoveEnv(); err == nil {
		t.Error("RemoveEnv without an environment should fail")
	}
}

func TestValidEngine(t *testing.T) {
	for _, e := range Engines {
		if !ValidEngine(e) {
			t.Errorf("ValidEngine(%q) = false", e)
		}
	}
	if ValidEngine("wordpad") {
		t.Error("ValidEngine(wordpad) = true")
	}
}
