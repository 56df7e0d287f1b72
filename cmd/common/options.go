package common

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/metrics"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

type Options struct {
	Graph      string        `yaml:"graph"`      // Edge list file.
	Undirected bool          `yaml:"undirected"` // Mirror every edge while loading.
	Transpose  bool          `yaml:"transpose"`  // Flip src and dst while loading.
	Pregel     pregel.Config `yaml:"pregel"`
	Output     string        `yaml:"output"` // Vertex values file; ".msgpack.zst" selects the compressed form.
	TopN       int           `yaml:"topN"`   // How many of the largest values to log.
	DebugLevel int           `yaml:"debug"`
	NoColour   bool          `yaml:"noColour"`
	LogJSON    bool          `yaml:"logJSON"`
	Pprof      string        `yaml:"pprof"`   // Address to serve pprof on.
	Metrics    string        `yaml:"metrics"` // Address to serve Prometheus metrics on.
}

// Reads a YAML options file over the given defaults.
func LoadOptionsFile(path string, into *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, into)
}

// Declare your own flags before you call this function.
// Flags given explicitly on the command line win over the -config file, which wins over defaults.
func FlagsToOptions(defaults Options) (options Options) {
	configPtr := flag.String("config", "", "YAML options file. Flags given explicitly override it.")
	graphPtr := flag.String("g", defaults.Graph, "Graph file (edge list: src dst per line).")
	threads := defaults.Pregel.Concurrency
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	threadPtr := flag.Int("t", threads, "Concurrency: compute steps run at once.")
	maxPtr := flag.Int("s", defaults.Pregel.MaxSupersteps, "Maximum supersteps.")
	batchPtr := flag.Int("b", defaults.Pregel.BatchSize, "Minimum nodes per compute step.")
	queuePtr := flag.String("q", defaults.Pregel.Queue.String(), "Inbox strategy: auto, bounded or unbounded.")
	dirPtr := flag.String("dir", defaults.Pregel.Direction.String(), "Direction messages are sent along: outgoing, incoming or both.")
	undirectedPtr := flag.Bool("u", defaults.Undirected, "Interpret the input graph as undirected (add transpose edges).")
	transposePtr := flag.Bool("tr", defaults.Transpose, "Interpret the input graph in reverse (flip src and dst).")
	outPtr := flag.String("p", "", "Write vertex values to this file. A .msgpack.zst suffix writes the compressed form.")
	topPtr := flag.Int("top", defaults.TopN, "Log the N largest values.")
	debugPtr := flag.Int("debug", 0, "Adds extra debug output. Level 0 for info, 1 for debug, 2 for trace.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	jsonPtr := flag.Bool("json", false, "Log JSON lines instead of console output.")
	pprofPtr := flag.String("pprof", "", "If set, will serve pprof on the given address:port. E.g.\"0.0.0.0:6060\".")
	metricsPtr := flag.String("metrics", "", "If set, will serve Prometheus metrics on the given address:port.")
	flag.Parse()

	options = defaults
	if *configPtr != "" {
		if err := LoadOptionsFile(*configPtr, &options); err != nil {
			log.Panic().Err(err).Msg("Failed to read options file: " + *configPtr)
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	override := func(name string, apply func()) {
		if set[name] || *configPtr == "" {
			apply()
		}
	}
	override("g", func() { options.Graph = *graphPtr })
	override("t", func() { options.Pregel.Concurrency = *threadPtr })
	override("s", func() { options.Pregel.MaxSupersteps = *maxPtr })
	override("b", func() { options.Pregel.BatchSize = *batchPtr })
	override("u", func() { options.Undirected = *undirectedPtr })
	override("tr", func() { options.Transpose = *transposePtr })
	override("p", func() { options.Output = *outPtr })
	override("top", func() { options.TopN = *topPtr })
	override("debug", func() { options.DebugLevel = *debugPtr })
	override("nc", func() { options.NoColour = *colourPtr })
	override("json", func() { options.LogJSON = *jsonPtr })
	override("pprof", func() { options.Pprof = *pprofPtr })
	override("metrics", func() { options.Metrics = *metricsPtr })
	var err error
	override("q", func() {
		if options.Pregel.Queue, err = pregel.ParseQueueStrategy(*queuePtr); err != nil {
			log.Panic().Err(err).Msg("Invalid -q.")
		}
	})
	override("dir", func() {
		if options.Pregel.Direction, err = graph.ParseDirection(*dirPtr); err != nil {
			log.Panic().Err(err).Msg("Invalid -dir.")
		}
	})

	ApplyLogging(options)

	if options.Graph == "" {
		flag.Usage()
		os.Exit(1)
	}
	if options.Pregel.Concurrency <= 0 {
		log.Panic().Msg("Invalid thread count.")
	} else if options.Pregel.Concurrency > runtime.NumCPU() {
		log.Warn().Msg("Thread count is greater than CPU count?")
	}

	if options.Pprof != "" {
		go func() {
			log.Info().Msg("pprof Starting on " + options.Pprof)
			err := http.ListenAndServe(options.Pprof, nil)
			if err != nil {
				log.Error().Err(err).Msg("pprof Failed to start.")
			}
		}()
	}
	if options.Metrics != "" {
		metrics.Serve(options.Metrics)
	}
	return options
}

func ApplyLogging(options Options) {
	if options.LogJSON {
		utils.SetLoggerJSON(os.Stdout)
	} else if options.NoColour {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(options.DebugLevel)
}
