package config

import (
	"io/ioutil"
	"kiln/common"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProject(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(dir, common.ConfigFileName), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}

	return dir
}

const twoProfiles = `
[project]
name = "demos"
kiln-version = ">= 0.1.0"

[[profiles]]
name = "release"
output = "build/demos.ll"
target = "x86_64-pc-linux-gnu"
verify = false

[[profiles]]
name = "debug"
output = "build/demos_debug.ll"
verify = true
default = true
`

func TestLoadSelectsDefaultProfile(t *testing.T) {
	dir := writeProject(t, twoProfiles)

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proj.Name != "demos" || proj.Root != dir {
		t.Fatalf("unexpected project %+v", proj)
	}

	if proj.Profile.Name != "debug" || !proj.Profile.Verify {
		t.Fatalf("expected the debug profile, got %+v", proj.Profile)
	}

	if want := filepath.Join(dir, "build", "demos_debug.ll"); proj.ResolveOutputPath() != want {
		t.Fatalf("output should resolve to %s, got %s", want, proj.ResolveOutputPath())
	}
}

func TestLoadSelectsNamedProfile(t *testing.T) {
	dir := writeProject(t, twoProfiles)

	proj, err := Load(dir, "release")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proj.Profile.Name != "release" || proj.Profile.Verify || proj.Profile.TargetTriple != "x86_64-pc-linux-gnu" {
		t.Fatalf("expected the release profile, got %+v", proj.Profile)
	}

	if _, err := Load(dir, "profiling"); err == nil || !strings.Contains(err.Error(), "has no profile `profiling`") {
		t.Fatalf("expected a missing profile error, got %v", err)
	}
}

func TestLoadFallsBackToFirstProfile(t *testing.T) {
	dir := writeProject(t, `
[project]
name = "p"

[[profiles]]
name = "a"
output = "a.ll"

[[profiles]]
name = "b"
output = "b.ll"
`)

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proj.Profile.Name != "a" {
		t.Fatalf("expected the first profile, got %s", proj.Profile.Name)
	}
}

func TestLoadWithoutProfiles(t *testing.T) {
	dir := writeProject(t, "[project]\nname = \"bare\"\n")

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proj.Profile.OutputPath != common.DefaultOutputPath || !proj.Profile.Verify {
		t.Fatalf("expected the built-in profile, got %+v", proj.Profile)
	}
}

func TestLoadWithoutProjectFile(t *testing.T) {
	dir := t.TempDir()

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proj.Root != "" || proj.ResolveOutputPath() != common.DefaultOutputPath {
		t.Fatalf("expected the built-in project, got %+v", proj)
	}

	if _, err := Load(dir, "debug"); err == nil {
		t.Fatalf("selecting a profile without a project file should fail")
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name, contents, want string
	}{
		{"bad toml", "[project\nname=", "error decoding"},
		{"no project table", "[[profiles]]\nname = \"a\"\noutput = \"a.ll\"\n", "missing [project] table"},
		{"no name", "[project]\n", "missing project name"},
		{"bad name", "[project]\nname = \"9lives\"\n", "must be a valid identifier"},
		{"bad constraint", "[project]\nname = \"p\"\nkiln-version = \"not a version\"\n", "invalid kiln-version constraint"},
		{"no output", "[project]\nname = \"p\"\n[[profiles]]\nname = \"a\"\n", "must specify an output path"},
	}

	for _, tc := range cases {
		dir := writeProject(t, tc.contents)

		_, err := Load(dir, "")
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected an error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestVersionMismatchIsOnlyAWarning(t *testing.T) {
	dir := writeProject(t, "[project]\nname = \"future\"\nkiln-version = \">= 99.0.0\"\n")

	if _, err := Load(dir, ""); err != nil {
		t.Fatalf("a version mismatch should not fail loading: %v", err)
	}
}

func TestInitProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := InitProject("fresh", dir, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("generated project file does not load: %v", err)
	}

	if proj.Name != "fresh" || proj.Profile.Name != "debug" {
		t.Fatalf("unexpected project %+v with profile %+v", proj, proj.Profile)
	}

	if err := InitProject("fresh", dir, false); err == nil {
		t.Fatalf("initializing over an existing project file should fail")
	}

	if err := InitProject("not valid", t.TempDir(), true); err == nil {
		t.Fatalf("invalid project names should be rejected")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, "[project]\nname = \"p\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, os.ModePerm); err != nil {
		t.Fatalf("failed to create directories: %v", err)
	}

	found, ok := FindProjectRoot(nested)
	if !ok || found != root {
		t.Fatalf("expected to find %s, got %s (%v)", root, found, ok)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, id := range []string{"a", "_x", "demos2", "Kiln_Project"} {
		if !IsValidIdentifier(id) {
			t.Fatalf("%q should be valid", id)
		}
	}

	for _, id := range []string{"", "2x", "a-b", "a b"} {
		if IsValidIdentifier(id) {
			t.Fatalf("%q should be invalid", id)
		}
	}
}
