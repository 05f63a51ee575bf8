package config

import (
	"errors"
	"fmt"
	"kiln/common"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// InitProject creates a new project file with the given name at the given path
func InitProject(name, path string, noProfiles bool) error {
	projFilePath := filepath.Join(path, common.ConfigFileName)

	// check to see if a project already exists
	_, err := os.Stat(projFilePath)
	if err == nil {
		return errors.New("project file already exists")
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("project file error: %s", err.Error())
	}

	if !IsValidIdentifier(name) {
		return errors.New("project name must be a valid identifier")
	}

	tpf := &tomlProjectFile{
		Project: &tomlProject{
			Name:    name,
			Version: ">= " + common.KilnVersion,
		},
	}

	if !noProfiles {
		tpf.Profiles = []*tomlProfile{newInitProfile(name, true), newInitProfile(name, false)}
	}

	f, err := os.Create(projFilePath)
	if err != nil {
		return fmt.Errorf("error creating project file: %s", err.Error())
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tpf); err != nil {
		return fmt.Errorf("error encoding TOML %s", err.Error())
	}

	return nil
}

// newInitProfile creates a new initial profile for a project
func newInitProfile(projName string, debug bool) *tomlProfile {
	prof := &tomlProfile{
		Verify:      debug,
		DefaultProf: debug, // debug profile is the default
	}

	if debug {
		prof.Name = "debug"
		prof.OutputPath = filepath.Join("build", projName+"_debug.ll")
	} else {
		prof.Name = "release"
		prof.OutputPath = filepath.Join("build", projName+".ll")
	}

	return prof
}
