package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"kiln/common"
	"kiln/logging"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml"
)

// tomlProjectFile represents the project file as it is encoded in TOML
type tomlProjectFile struct {
	Project  *tomlProject   `toml:"project"`
	Profiles []*tomlProfile `toml:"profiles"`
}

// tomlProject represents the `[project]` table
type tomlProject struct {
	Name    string `toml:"name"`
	Version string `toml:"kiln-version,omitempty"`
}

// tomlProfile represents a profile as it encoded in TOML
type tomlProfile struct {
	Name         string `toml:"name"`
	OutputPath   string `toml:"output"`
	TargetTriple string `toml:"target,omitempty"`
	Verify       bool   `toml:"verify"`
	DefaultProf  bool   `toml:"default"` // in absence of a selected profile, choose this profile
}

// DefaultProfile returns the profile used when a project specifies none.
func DefaultProfile() *Profile {
	return &Profile{
		Name:       "default",
		OutputPath: common.DefaultOutputPath,
		Verify:     true,
	}
}

// DefaultProject returns the project used when no project file exists.
func DefaultProject() *Project {
	return &Project{
		Name:    "demos",
		Profile: DefaultProfile(),
	}
}

// Load loads and validates the project in the directory `path` and selects
// its build profile.  `selectedProfile` can be empty if there is no profile
// selected.  If the directory contains no project file, the built-in defaults
// are returned (a selected profile is then an error since it cannot exist).
func Load(path, selectedProfile string) (*Project, error) {
	f, err := os.Open(filepath.Join(path, common.ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			if selectedProfile != "" {
				return nil, fmt.Errorf("no project file in %s; cannot select profile `%s`", path, selectedProfile)
			}

			return DefaultProject(), nil
		}

		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return parse(buff, path, selectedProfile)
}

// parse decodes the contents of a project file and builds the project from it
func parse(buff []byte, path, selectedProfile string) (*Project, error) {
	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", common.ConfigFileName, err)
	}

	if tpf.Project == nil {
		return nil, fmt.Errorf("missing [project] table in %s", filepath.Join(path, common.ConfigFileName))
	}

	proj := &Project{Root: path}
	if err := validateProject(proj, tpf.Project); err != nil {
		return nil, err
	}

	prof, err := selectProfile(tpf, selectedProfile)
	if err != nil {
		return nil, err
	}

	proj.Profile = prof
	return proj, nil
}

// validateProject checks that the `[project]` table is valid and copies it
// over to the project
func validateProject(proj *Project, tproj *tomlProject) error {
	if tproj.Name == "" {
		return fmt.Errorf("missing project name for project at %s", proj.Root)
	}

	if !IsValidIdentifier(tproj.Name) {
		return errors.New("project name must be a valid identifier")
	}

	proj.Name = tproj.Name
	proj.VersionConstraint = tproj.Version

	return checkVersion(tproj.Name, tproj.Version)
}

// checkVersion checks the running kiln version against the version constraint
// of a project.  Mismatches are only warnings: the project may still build.
func checkVersion(projName, constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid kiln-version constraint `%s`: %w", constraint, err)
	}

	current := semver.MustParse(common.KilnVersion)
	if !c.Check(current) {
		logging.LogBuildWarning(
			"project",
			fmt.Sprintf("project `%s` requires kiln %s but this is kiln v%s", projName, constraint, common.KilnVersion),
		)
	}

	return nil
}

// selectProfile picks the profile to build with: the named profile if there
// is one, then the default profile, then the first profile listed
func selectProfile(tpf *tomlProjectFile, selectedProfile string) (*Profile, error) {
	projName := tpf.Project.Name

	if len(tpf.Profiles) == 0 {
		if selectedProfile != "" {
			return nil, fmt.Errorf("project `%s` has no profile `%s`", projName, selectedProfile)
		}

		return DefaultProfile(), nil
	}

	if selectedProfile != "" {
		for _, prof := range tpf.Profiles {
			if prof.Name == selectedProfile {
				return convertProfile(projName, prof)
			}
		}

		return nil, fmt.Errorf("project `%s` has no profile `%s`", projName, selectedProfile)
	}

	var defaultProf *tomlProfile
	for _, prof := range tpf.Profiles {
		if prof.DefaultProf {
			if defaultProf != nil {
				logging.LogBuildWarning(
					"project",
					fmt.Sprintf("multiple default profiles for project `%s`; building with profile `%s`", projName, defaultProf.Name),
				)

				break
			}

			defaultProf = prof
		}
	}

	if defaultProf == nil {
		defaultProf = tpf.Profiles[0]
	}

	return convertProfile(projName, defaultProf)
}

// convertProfile converts a TOML build profile into a `*Profile`
func convertProfile(projName string, tprof *tomlProfile) (*Profile, error) {
	if tprof.Name == "" {
		return nil, fmt.Errorf("profile in project `%s` must specify a name", projName)
	}

	if !IsValidIdentifier(tprof.Name) {
		return nil, fmt.Errorf("profile name `%s` must be a valid identifier", tprof.Name)
	}

	if tprof.OutputPath == "" {
		return nil, fmt.Errorf("profile `%s` must specify an output path", tprof.Name)
	}

	return &Profile{
		Name:         tprof.Name,
		OutputPath:   tprof.OutputPath,
		TargetTriple: tprof.TargetTriple,
		Verify:       tprof.Verify,
	}, nil
}

// ResolveOutputPath returns the path the profile output should be written to.
// Relative outputs are placed under the project root.
func (p *Project) ResolveOutputPath() string {
	if filepath.IsAbs(p.Profile.OutputPath) || p.Root == "" {
		return p.Profile.OutputPath
	}

	return filepath.Join(p.Root, p.Profile.OutputPath)
}
