package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/cmd/common"
	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

// Launch point. Parses command line arguments, and launches the graph execution.
func main() {
	asyncPtr := flag.Bool("a", false, "Skip superstep barriers; labels still converge to the same result.")
	defaults := common.Options{Graph: "data/test.txt", Pregel: pregel.DefaultConfig()}
	defaults.Pregel.Direction = graph.BOTH // Weak components of a directed graph.
	options := common.FlagsToOptions(defaults)

	g := common.LoadGraph(options)
	result := common.Launch(options, g, Factory(*asyncPtr))
	labels := result.Values.ToSlice()
	log.Info().Msg("Number of unique components: " + utils.V(CountComponents(labels)))
	for _, c := range LargestComponents(labels, 5) {
		log.Info().Msg("Component " + utils.V(g.RawID(c.First)) + " size " + utils.V(c.Second))
	}
}
