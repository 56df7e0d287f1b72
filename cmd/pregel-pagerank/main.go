package main

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/cmd/common"
	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

// Launch point. Parses command line arguments, and launches the graph execution.
func main() {
	defaults := common.Options{Graph: "data/test.txt", Pregel: pregel.DefaultConfig(), TopN: 10}
	defaults.Pregel.Direction = graph.OUTGOING
	options := common.FlagsToOptions(defaults)
	g := common.LoadGraph(options)
	result := common.Launch(options, g, NewPageRank)
	if total, ok := CheckMass(result.Values); !ok {
		log.Warn().Msg("Total rank " + utils.V(total) + " is not 1; sinks: " + utils.V(graph.ComputeStats(g).Sinks))
	}
}
