package output

import "github.com/mj1618/macropad/internal/profile"

// ProfileReport is printed by `profile validate`.
type ProfileReport struct {
	Path     string            `yaml:"path"               json:"path"`
	Format   string            `yaml:"format"             json:"format"`
	Buttons  []int             `yaml:"buttons"            json:"buttons"`
	Actions  int               `yaml:"actions"            json:"actions"`
	Screen   string            `yaml:"screen,omitempty"   json:"screen,omitempty"`
	Warnings []profile.Warning `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Created  bool              `yaml:"created,omitempty"  json:"created,omitempty"`
}

// NewProfileReport summarizes a parse result.
func NewProfileReport(path string, f profile.Format, res *profile.Result, created bool) ProfileReport {
	r := ProfileReport{
		Path:     path,
		Format:   f.String(),
		Buttons:  []int{},
		Warnings: res.Warnings,
		Created:  created,
	}
	for _, id := range res.Profile.Buttons() {
		r.Buttons = append(r.Buttons, int(id))
		r.Actions += len(res.Profile[id])
	}
	if res.Screen != nil {
		r.Screen = res.Screen.String()
	}
	return r
}

// StepResult reports one step of a trigger run or an MCP tool call.
type StepResult struct {
	OK      bool     `yaml:"ok"                json:"ok"`
	Button  int      `yaml:"button"            json:"button"`
	Edge    string   `yaml:"edge"              json:"edge"`
	Actions int      `yaml:"actions,omitempty" json:"actions,omitempty"`
	Held    []string `yaml:"held,omitempty"    json:"held,omitempty"`
	Error   string   `yaml:"error,omitempty"   json:"error,omitempty"`
}
