package catalog

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed demo_data.yaml
var demoDataYAML []byte

type demoFile struct {
	Profile Profile   `yaml:"profile"`
	Prompts []*Prompt `yaml:"prompts"`
}

var demo demoFile

func init() {
	if err := yaml.Unmarshal(demoDataYAML, &demo); err != nil {
		panic(fmt.Sprintf("catalog: embedded demo data is invalid: %v", err))
	}
	if t := demo.Profile.Generations.Total; t > 0 {
		demo.Profile.SuccessRate = int(math.Round(float64(demo.Profile.Generations.Success) / float64(t) * 100))
	}
}

// DemoPrompts returns a fresh copy of the built-in demo catalog. Each call
// copies the prompts so locally incremented counters never leak into a
// later reload.
func DemoPrompts() []*Prompt {
	out := make([]*Prompt, len(demo.Prompts))
	for i, p := range demo.Prompts {
		cp := *p
		cp.Tags = append([]string(nil), p.Tags...)
		out[i] = &cp
	}
	return out
}

// DemoProfile returns the built-in demo profile.
func DemoProfile() Profile {
	return demo.Profile
}
