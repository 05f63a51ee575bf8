package config

// Project represents a kiln project: the configuration read from `kiln.toml`
// together with the profile selected for this build.
type Project struct {
	// Name is the name of the project
	Name string

	// Root is the path to the directory enclosing the project file.  It is
	// empty if the project was created from the built-in defaults.
	Root string

	// VersionConstraint is the kiln version constraint the project was
	// written against (eg. `>= 0.1.0`).  May be empty.
	VersionConstraint string

	// Profile is the profile selected for this build
	Profile *Profile
}

// Profile represents a single build profile of a project.
type Profile struct {
	// Name is the name of the profile
	Name string

	// OutputPath is the path the generated LLVM IR is written to.  Relative
	// paths are relative to the project root.
	OutputPath string

	// TargetTriple is the target triple recorded in the emitted module.  May
	// be empty in which case no triple is emitted.
	TargetTriple string

	// Verify indicates whether the generated IR should be structurally
	// verified before it is written
	Verify bool
}

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (project name, profile name, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	if idstr[0] == '_' || ('a' <= idstr[0] && idstr[0] <= 'z') || ('A' <= idstr[0] && idstr[0] <= 'Z') {
		for _, c := range idstr[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}

			return false
		}

		return true
	}

	return false
}
