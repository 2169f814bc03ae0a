package export

import "fmt"

// Profile determines which statements are included in the export.
type Profile string

const (
	// ProfileHierarchy includes class types, labels and subclass links.
	ProfileHierarchy Profile = "hierarchy"

	// ProfileFull adds properties with their domain and range, and comments
	// when descriptions are available.
	ProfileFull Profile = "full"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludeProperties indicates whether property resources are exported.
	IncludeProperties bool

	// IncludeComments indicates whether rdfs:comment statements are exported.
	IncludeComments bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileHierarchy: {
		Name:        ProfileHierarchy,
		Description: "Classes with labels and rdfs:subClassOf links",
	},
	ProfileFull: {
		Name:              ProfileFull,
		Description:       "Classes and properties with domain, range and comments",
		IncludeProperties: true,
		IncludeComments:   true,
	},
}

// GetProfileConfig returns the configuration for a profile.
// Returns the hierarchy profile config if the profile is not found.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileHierarchy]
}

// ParseProfile validates a profile name. The empty string selects
// ProfileHierarchy.
func ParseProfile(s string) (Profile, error) {
	if s == "" {
		return ProfileHierarchy, nil
	}
	if _, ok := Profiles[Profile(s)]; !ok {
		return "", fmt.Errorf("unknown export profile %q", s)
	}
	return Profile(s), nil
}
