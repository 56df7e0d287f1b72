package common

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

// Loads the graph named by the options. The incoming index is always built so bounded inboxes stay available.
func LoadGraph(options Options) *graph.CSR {
	g, err := graph.LoadEdgeList(options.Graph, graph.LoadOptions{
		Undirected: options.Undirected,
		Transpose:  options.Transpose,
		Reverse:    true,
	})
	if err != nil {
		log.Panic().Err(err).Msg("Failed to load graph.")
	}
	graph.LogStats(g)
	return g
}

// Runs the program over the graph until convergence, the superstep limit, or an interrupt.
// Writes and logs the results as the options ask. The caller owns the returned values.
func Launch(options Options, g *graph.CSR, newProgram pregel.ProgramFactory) pregel.Result {
	p, err := pregel.New(g, options.Pregel, newProgram)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to set up the computation.")
	}
	log.Info().Msg("Estimated memory: " + p.MemoryEstimate().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := p.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Computation stopped early; results are partial.")
	}
	heap := utils.MemoryStats()
	log.Info().Msg("Heap in use (MB): " + utils.V(heap>>20))

	PrintTopN(result.Values, g, uint32(max(options.TopN, 0)))
	if options.Output != "" {
		if err := WriteVertexValues(options.Output, ExtractGraphName(options.Graph), result.RunID.String(), g, result.Values); err != nil {
			log.Error().Err(err).Msg("Failed to write " + options.Output)
		} else {
			log.Info().Msg("Wrote vertex values to " + options.Output)
		}
	}
	return result
}
