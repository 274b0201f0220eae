// Package idgen hands out time-ordered int64 identifiers.
package idgen

import (
	"fmt"
	"math/rand/v2"

	"github.com/influxdata/influxdb/pkg/snowflake"
)

// maxNode is the largest machine id a snowflake generator accepts.
const maxNode = 1023

type Generator struct {
	sf *snowflake.Generator
}

// New returns a generator for the given node. A negative node picks a random
// one, which is fine for a single instance.
func New(node int) (*Generator, error) {
	if node < 0 {
		node = rand.IntN(maxNode + 1) //nolint:gosec // not used for crypto
	}
	if node > maxNode {
		return nil, fmt.Errorf("idgen: node %d out of range [0,%d]", node, maxNode)
	}
	return &Generator{sf: snowflake.New(node)}, nil
}

// Next returns a fresh id. Snowflake ids keep the sign bit clear until the
// 42-bit timestamp overflows, so the conversion is lossless.
func (g *Generator) Next() int64 {
	return int64(g.sf.Next()) //nolint:gosec // see above
}
