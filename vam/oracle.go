package vam

import "github.com/momentics/numaq/config"

// Predict implements the placement oracle: LINEAR prefers the smallest
// HBM node, falling back silently to the smallest node of any class when
// no HBM node exists; RANDOM (and the default) prefers the smallest DRAM
// node.
func Predict(pattern AccessPattern, mm *config.MemoryMap) (int, error) {
	if pattern == LINEAR {
		node, err := mm.FirstNode(config.HBM)
		if err == nil {
			return node, nil
		}
		return mm.FirstNode(config.AnyClass)
	}
	return mm.FirstNode(config.DRAM)
}
