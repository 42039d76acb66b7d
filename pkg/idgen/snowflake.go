package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeID   int64 = 1
)

// SetNode selects the snowflake node id. It only has an effect before the first id is generated.
func SetNode(id int64) {
	nodeID = id
}

// GenerateID returns a new snowflake id
func GenerateID() int64 {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			// Out-of-range node ids fall back to node 1
			node, _ = snowflake.NewNode(1)
		}
	})
	return node.Generate().Int64()
}
