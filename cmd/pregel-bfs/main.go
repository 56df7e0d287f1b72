package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/cmd/common"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

// Launch point. Parses command line arguments, and launches the graph execution.
func main() {
	sourcePtr := flag.Uint("src", 1, "Raw id of the source node.")
	asyncPtr := flag.Bool("a", false, "Skip superstep barriers; distances still converge to the same result.")
	defaults := common.Options{Graph: "data/test.txt", Pregel: pregel.DefaultConfig()}
	defaults.Pregel.MaxSupersteps = 1 << 20
	options := common.FlagsToOptions(defaults)
	options.Pregel = Configure(options.Pregel)

	g := common.LoadGraph(options)
	source, err := DenseID(g, uint32(*sourcePtr))
	if err != nil {
		log.Panic().Err(err).Msg("Bad -src " + utils.V(*sourcePtr))
	}
	result := common.Launch(options, g, Factory(source, *asyncPtr))
	reached, eccentricity := Reached(result.Values.ToSlice())
	log.Info().Msg("Reached " + utils.V(reached) + " of " + utils.V(g.NodeCount()) + " nodes, eccentricity " + utils.V(eccentricity))
}
