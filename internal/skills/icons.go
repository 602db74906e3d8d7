package skills

import "regexp"

// Icon rendering hints stored per skill. The library field is a closed set
// the frontend maps to its icon packs; the name is validated by pattern so
// arbitrary markup can never reach the UI.
type Icon struct {
	Library string `json:"library"`
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Class   string `json:"class,omitempty"`
}

var IconLibraries = []string{
	"fontawesome", "simple-icons", "devicons", "bootstrap-icons",
	"material", "feather", "ionicons", "remix", "tabler", "custom",
}

var iconNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

func ValidIconLibrary(lib string) bool {
	for _, l := range IconLibraries {
		if l == lib {
			return true
		}
	}
	return false
}

func ValidIconName(name string) bool {
	return iconNameRe.MatchString(name)
}
