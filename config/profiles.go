package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

//go:embed testing.yaml
var testingProfileYAML []byte

//go:embed benchmarking.yaml
var benchmarkingProfileYAML []byte

// Profile names selecting an embedded memory-class descriptor, chosen at
// runtime rather than compiled in.
const (
	ProfileTesting      = "testing"
	ProfileBenchmarking = "benchmarking"
)

// LoadProfile returns the MemoryMap embedded for the named profile.
func LoadProfile(name string) (*MemoryMap, error) {
	var raw []byte
	switch name {
	case ProfileTesting:
		raw = testingProfileYAML
	case ProfileBenchmarking:
		raw = benchmarkingProfileYAML
	default:
		return nil, fmt.Errorf("config: unknown profile %q", name)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytesReader(raw)); err != nil {
		return nil, fmt.Errorf("config: parsing embedded profile %q: %w", name, err)
	}
	var doc memoryDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("config: unmarshal embedded profile %q: %w", name, err)
	}
	nodes := make(map[int]MemoryClass, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodes[n.Node] = MemoryClass(n.MemType)
	}
	return &MemoryMap{nodes: nodes}, nil
}
