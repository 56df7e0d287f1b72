package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/utils"
)

func main() {
	gptr := flag.String("g", "data/test.txt", "Graph file")
	optr := flag.String("o", "", "Output file. Defaults to the graph file with a .shuffled suffix.")
	flag.Parse()

	out := *optr
	if out == "" {
		out = *gptr + ".shuffled"
	}
	in := utils.OpenFile(*gptr)
	defer in.Close()
	f := utils.CreateFile(out)
	defer f.Close()

	watch := utils.Watch{}
	watch.Start()
	count, err := ShuffleEdges(in, f)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to shuffle " + *gptr)
	}
	log.Info().Msg("Shuffled " + utils.V(count) + " edges into " + out + " in (ms): " + utils.V(watch.Elapsed().Milliseconds()))
}
