package graph

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/utils"
)

type Stats struct {
	Nodes         uint32
	Relationships uint64
	Sinks         uint32 // No outgoing relationships.
	Isolated      uint32 // No relationships at all (only counted when incoming degrees are known).
	MaxOutDegree  int
	MaxOutNode    uint32
	MedianDegree  int
	P95Degree     int
}

func ComputeStats(g Graph) (s Stats) {
	s.Nodes = g.NodeCount()
	s.Relationships = g.RelationshipCount()
	degrees := make([]int, s.Nodes)
	reverse := g.HasReverseDegree()
	for n := uint32(0); n < s.Nodes; n++ {
		d := g.Degree(n, OUTGOING)
		degrees[n] = d
		if d == 0 {
			s.Sinks++
			if reverse && g.Degree(n, INCOMING) == 0 {
				s.Isolated++
			}
		}
		if d > s.MaxOutDegree {
			s.MaxOutDegree, s.MaxOutNode = d, n
		}
	}
	if s.Nodes > 0 {
		s.MedianDegree = utils.Median(degrees)
		s.P95Degree = utils.Percentile(degrees, 95)
	}
	return s
}

// Logs a summary of the topology at info level.
func LogStats(g Graph) Stats {
	s := ComputeStats(g)
	log.Info().Msg("Nodes: " + utils.V(s.Nodes) + " Relationships: " + utils.V(s.Relationships) +
		" Sinks: " + utils.V(s.Sinks) + " Isolated: " + utils.V(s.Isolated))
	log.Info().Msg("Max out degree: " + utils.V(s.MaxOutDegree) + " (node " + utils.V(s.MaxOutNode) + ")" +
		" Median out degree: " + utils.V(s.MedianDegree) + " P95 out degree: " + utils.V(s.P95Degree))
	return s
}
