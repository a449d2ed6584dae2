package topology

import (
	"fmt"
	"sort"
)

// nsfnetEdges is the 14-node NSFNET backbone with one fiber per direction.
var nsfnetEdges = [][2]int{
	{0, 1}, {0, 2}, {0, 7}, {1, 0}, {1, 2}, {1, 3}, {2, 0}, {2, 1}, {2, 5},
	{3, 1}, {3, 4}, {3, 10}, {4, 3}, {4, 5}, {4, 6}, {5, 2}, {5, 4}, {5, 9},
	{5, 13}, {6, 4}, {6, 7}, {7, 0}, {7, 6}, {7, 8}, {8, 7}, {8, 9}, {8, 11},
	{8, 12}, {9, 5}, {9, 8}, {10, 3}, {10, 11}, {10, 12}, {11, 8}, {11, 10},
	{11, 13}, {12, 8}, {12, 10}, {12, 13}, {13, 5}, {13, 11}, {13, 12},
}

// fiveNodeEdges is the small 5-node mesh, nodes numbered from 1.
var fiveNodeEdges = [][2]int{
	{1, 2}, {2, 1}, {1, 4}, {4, 1},
	{2, 3}, {3, 2}, {2, 5}, {5, 2},
	{3, 5}, {5, 3}, {4, 5}, {5, 4},
}

// presets maps preset names to topology builders taking the slot count.
var presets = map[string]func(slots int) Config{
	"nsfnet": func(slots int) Config {
		return Config{Nodes: seq(0, 13), Edges: nsfnetEdges, Slots: slots}
	},
	"five-node": func(slots int) Config {
		return Config{Nodes: seq(1, 5), Edges: fiveNodeEdges, Slots: slots}
	},
}

// PresetNames returns the names accepted by Preset, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValidPreset returns true if name is a known preset.
func IsValidPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Preset returns the Config of a named topology with the given slot count.
func Preset(name string, slots int) (Config, error) {
	build, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidTopology, name)
	}
	cfg := build(slots)
	cfg.Edges = append([][2]int(nil), cfg.Edges...)
	return cfg, nil
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
