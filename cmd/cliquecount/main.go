// Command cliquecount counts cliques of every size in an edge-list
// dataset, distributing the enumeration across donation-capable worker
// ranks.
package main

import (
	"github.com/cliquecount/cmd/cliquecount/cmd"
)

func main() {
	cmd.Execute()
}
