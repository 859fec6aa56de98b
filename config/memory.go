// Package config loads the NUMA node→memory-class map and the
// process-wide runtime tunables the driver reads at startup.
//
// Loading goes through spf13/viper so the same map can be expressed as
// YAML, JSON or TOML without the driver caring which; a .env file is
// bootstrapped first with joho/godotenv, mirroring the two-stage startup
// sequence common in Go service configs.
package config

import (
	"fmt"
	"sort"

	"github.com/momentics/numaq/numaerr"
	"github.com/spf13/viper"
)

// MemoryClass is the memory technology backing a NUMA node.
type MemoryClass string

const (
	DRAM MemoryClass = "DRAM"
	HBM  MemoryClass = "HBM"
	// AnyClass matches a node regardless of its memory class.
	AnyClass MemoryClass = ""
)

// MemoryMap is the finite Node -> MemoryClass mapping used to place allocations.
type MemoryMap struct {
	nodes map[int]MemoryClass
}

// NewMemoryMap builds a MemoryMap from an explicit node->class mapping,
// primarily for tests; production code loads via Load or LoadProfile.
func NewMemoryMap(nodes map[int]MemoryClass) *MemoryMap {
	cp := make(map[int]MemoryClass, len(nodes))
	for k, v := range nodes {
		cp[k] = v
	}
	return &MemoryMap{nodes: cp}
}

type nodeEntry struct {
	Node    int    `mapstructure:"node"`
	MemType string `mapstructure:"mem_type"`
}

type memoryDoc struct {
	Nodes []nodeEntry `mapstructure:"nodes"`
}

// Load reads a memory-class descriptor file at path using Viper, which
// picks the unmarshaler from the file extension (yaml/yml/json/toml).
func Load(path string) (*MemoryMap, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var doc memoryDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	nodes := make(map[int]MemoryClass, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodes[n.Node] = MemoryClass(n.MemType)
	}
	return &MemoryMap{nodes: nodes}, nil
}

// FirstNode returns the smallest node id of the given class, or of any
// class when class is AnyClass. Returns numaerr.ErrNoSuchMemoryClass when
// the map is non-empty but has no node of the requested class, and
// numaerr.ErrConfigMissing when the map itself has no nodes at all.
func (m *MemoryMap) FirstNode(class MemoryClass) (int, error) {
	if len(m.nodes) == 0 {
		return 0, numaerr.ErrConfigMissing
	}
	ids := make([]int, 0, len(m.nodes))
	for id, c := range m.nodes {
		if class == AnyClass || c == class {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, numaerr.ErrNoSuchMemoryClass
	}
	sort.Ints(ids)
	return ids[0], nil
}

// Len reports the number of configured nodes.
func (m *MemoryMap) Len() int { return len(m.nodes) }

// ClassOf returns the memory class of a node and whether it is configured.
func (m *MemoryMap) ClassOf(node int) (MemoryClass, bool) {
	c, ok := m.nodes[node]
	return c, ok
}
