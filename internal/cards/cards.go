package cards

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/HanasakaAlice/tefuda-oogiri/internal/game"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPools []byte

// Default returns the pools bundled with the server.
func Default() (game.CardPools, error) {
	return Parse(defaultPools)
}

// Load reads pools from a YAML file, or the bundled pools when path is empty.
func Load(path string) (game.CardPools, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return game.CardPools{}, fmt.Errorf("read cards file: %w", err)
	}
	pools, err := Parse(b)
	if err != nil {
		return game.CardPools{}, fmt.Errorf("%s: %w", path, err)
	}
	return pools, nil
}

// Parse decodes a YAML document with "prompts" and "answers" lists. Blank
// entries are dropped; both pools must end up non-empty.
func Parse(b []byte) (game.CardPools, error) {
	var raw game.CardPools
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return game.CardPools{}, fmt.Errorf("decode cards: %w", err)
	}
	pools := game.CardPools{
		Prompts: compact(raw.Prompts),
		Answers: compact(raw.Answers),
	}
	if len(pools.Prompts) == 0 {
		return game.CardPools{}, fmt.Errorf("no prompts defined")
	}
	if len(pools.Answers) == 0 {
		return game.CardPools{}, fmt.Errorf("no answers defined")
	}
	return pools, nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
