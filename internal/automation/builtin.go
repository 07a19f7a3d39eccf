package automation

import (
	"embed"
	"path"
	"sort"
	"strings"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

// Builtin returns the bundled scenario with the given name.
func Builtin(name string) (*Scenario, error) {
	data, err := builtin.ReadFile(path.Join("scenarios", name+".yaml"))
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ListBuiltin() []string {
	entries, _ := builtin.ReadDir("scenarios")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
