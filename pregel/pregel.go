// Package pregel runs vertex programs over a graph in bulk synchronous supersteps
// on a single machine.
//
// Each superstep every eligible vertex runs its program once: it reads the messages sent
// to it in the previous superstep, updates its own value, and may send one value to all
// its neighbours along the configured direction. A vertex is eligible when it received
// a message or has not voted to halt. The run ends once a superstep sends no message,
// or after MaxSupersteps.
package pregel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kelindar/bitmap"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/metrics"
	"github.com/ScottSallinen/pregel/queue"
	"github.com/ScottSallinen/pregel/utils"
)

type State uint32

const (
	Idle State = iota
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

type Result struct {
	Values       *hugearray.Float64 // Valid until Release.
	Supersteps   int
	Converged    bool // The last superstep sent no message.
	MessagesSent uint64
	RunID        uuid.UUID
	ComputeTime  time.Duration // Wall time without the barrier passes.
	WallTime     time.Duration
}

type Pregel struct {
	graph    graph.Graph
	config   Config
	async    bool
	strategy QueueStrategy // Resolved; never QueueAuto.

	values *hugearray.Float64
	store  queue.Store
	steps  []*computeStep

	sentTo bitmap.Bitmap // Receivers of the previous superstep.
	halted bitmap.Bitmap

	state        atomic.Uint32
	supersteps   atomic.Int64
	messagesSent uint64
	runID        uuid.UUID
}

// Validates the config against the graph and allocates all per run state.
func New(g graph.Graph, cfg Config, newProgram ProgramFactory) (*Pregel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if newProgram == nil {
		return nil, fmt.Errorf("%w: no program factory", ErrInvalidConfig)
	}
	n := g.NodeCount()
	if cfg.InitialValues != nil && uint64(len(cfg.InitialValues)) != uint64(n) {
		return nil, fmt.Errorf("%w: %d initial values for %d nodes", ErrInvalidConfig, len(cfg.InitialValues), n)
	}
	if !g.SupportsDirection(cfg.Direction) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDirection, cfg.Direction)
	}

	first := newProgram()
	p := &Pregel{
		graph:  g,
		config: cfg,
		async:  supportsAsync(first),
		runID:  uuid.New(),
	}

	receive := cfg.Direction.Reverse()
	canBound := g.HasReverseDegree() && g.SupportsDirection(receive)
	switch cfg.Queue {
	case QueueAuto:
		p.strategy = QueueUnbounded
		if canBound {
			p.strategy = QueueBounded
		}
	case QueueBounded:
		if !canBound {
			return nil, fmt.Errorf("%w: receive direction %s", ErrBoundedUnsupported, receive)
		}
		p.strategy = QueueBounded
	default:
		p.strategy = QueueUnbounded
	}

	if cfg.InitialValues != nil {
		p.values = hugearray.Float64Of(cfg.InitialValues)
	} else {
		p.values = hugearray.NewFloat64(uint64(n))
		if cfg.DefaultValue != 0 {
			p.values.Fill(cfg.DefaultValue)
		}
	}

	if p.strategy == QueueBounded {
		barrier := !p.async
		p.store = queue.NewBounded(n, func(v uint32) uint64 {
			return queue.BoundedCapacity(g.Degree(v, receive), barrier)
		})
	} else {
		p.store = queue.NewLinked(n)
	}

	// Partitions are whole bitmap words, so no two steps ever write the same word.
	batch := utils.RoundUpTo(max(uint64(cfg.BatchSize), utils.CeilDiv(uint64(n), uint64(cfg.Concurrency))), 64)
	for start := uint32(0); start < n; {
		end := uint32(min(uint64(start)+batch, uint64(n)))
		program := first
		if len(p.steps) > 0 {
			program = newProgram()
		}
		p.steps = append(p.steps, &computeStep{
			start:     start,
			end:       end,
			nodeCount: n,
			direction: cfg.Direction,
			graph:     g.ConcurrentCopy(),
			program:   program,
			values:    p.values,
			store:     p.store,
			senders:   newLocalSet(n),
			halted:    newLocalSet(n),
		})
		start = end
	}

	p.sentTo = newLocalSet(n)
	p.halted = newLocalSet(n)

	log.Debug().Msg("Pregel " + p.runID.String() + " nodes: " + utils.V(n) + " steps: " + utils.V(len(p.steps)) +
		" batch: " + utils.V(batch) + " queue: " + p.strategy.String() + " async: " + utils.V(p.async))
	return p, nil
}

// Supersteps whose compute pass finished, including one cancelled while reducing.
func (p *Pregel) Supersteps() int {
	return int(p.supersteps.Load())
}

func (p *Pregel) State() State {
	return State(p.state.Load())
}

// The resolved queue strategy.
func (p *Pregel) QueueStrategy() QueueStrategy {
	return p.strategy
}

func (p *Pregel) Async() bool {
	return p.async
}

func (p *Pregel) mode() string {
	if p.async {
		return "async"
	}
	return "barrier"
}

// Runs supersteps until convergence or MaxSupersteps. Can only be called once.
// On error the returned result holds the values as they were when the run stopped.
// A panic inside a vertex program is raised again here, with its original value.
func (p *Pregel) Run(ctx context.Context) (Result, error) {
	if !p.state.CompareAndSwap(uint32(Idle), uint32(Running)) {
		return Result{}, ErrAlreadyRun
	}
	defer p.state.Store(uint32(Halted))

	log.Info().Msg("Pregel " + p.runID.String() + " starting: max supersteps " + utils.V(p.config.MaxSupersteps) +
		", concurrency " + utils.V(p.config.Concurrency) + ", queue " + p.strategy.String() + ", mode " + p.mode())
	watch := utils.Watch{}
	watch.Start()

	converged, err := p.loop(ctx, &watch)

	result := Result{
		Values:       p.values,
		Supersteps:   p.Supersteps(),
		Converged:    converged,
		MessagesSent: p.messagesSent,
		RunID:        p.runID,
		ComputeTime:  watch.Elapsed(),
		WallTime:     watch.AbsoluteElapsed(),
	}
	outcome := "max_supersteps"
	if converged {
		outcome = "converged"
	}
	if err != nil {
		outcome = "failed"
		var wp *workerPanic
		if errors.As(err, &wp) {
			metrics.Runs.WithLabelValues(p.strategy.String(), p.mode(), "panicked").Inc()
			log.Error().Str("stack", string(wp.stack)).Msg("Pregel " + p.runID.String() + " vertex program panicked: " + utils.V(wp.value))
			panic(wp.value)
		}
		log.Warn().Err(err).Msg("Pregel " + p.runID.String() + " stopped at superstep " + utils.V(result.Supersteps))
	} else {
		log.Info().Msg("Pregel " + p.runID.String() + " finished: supersteps " + utils.V(result.Supersteps) + ", converged " +
			utils.V(converged) + ", messages " + utils.V(result.MessagesSent) + ", compute (ms) " + utils.V(result.ComputeTime.Milliseconds()) +
			", total (ms) " + utils.V(result.WallTime.Milliseconds()))
	}
	metrics.Runs.WithLabelValues(p.strategy.String(), p.mode(), outcome).Inc()
	return result, err
}

func (p *Pregel) loop(ctx context.Context, watch *utils.Watch) (converged bool, err error) {
	for superstep := 0; superstep < p.config.MaxSupersteps; superstep++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		watch.Lap()

		if !p.async && superstep > 0 {
			start := time.Now()
			watch.Pause()
			err := p.forEachStep(ctx, func(gctx context.Context, s *computeStep) error {
				return s.insertBarriers(gctx, p.sentTo)
			})
			watch.UnPause()
			if err != nil {
				return false, err
			}
			metrics.BarrierSeconds.Observe(time.Since(start).Seconds())
		}

		if err := p.forEachStep(ctx, func(gctx context.Context, s *computeStep) error {
			return s.run(gctx, superstep, p.sentTo, p.halted)
		}); err != nil {
			return false, err
		}

		// Values of this superstep are written, so it counts even if the reduce is cancelled.
		senders := make([]bitmap.Bitmap, len(p.steps))
		halted := make([]bitmap.Bitmap, len(p.steps))
		var computed, sent uint64
		for i, s := range p.steps {
			senders[i] = s.senders
			halted[i] = s.halted
			computed += s.computed
			sent += s.messagesSent
		}
		p.messagesSent += sent
		p.supersteps.Add(1)

		reduceStart := time.Now()
		if p.sentTo, err = unionReduce(ctx, senders, p.config.Concurrency); err != nil {
			return false, err
		}
		if p.halted, err = unionReduce(ctx, halted, p.config.Concurrency); err != nil {
			return false, err
		}
		metrics.ReduceSeconds.Observe(time.Since(reduceStart).Seconds())

		active := p.sentTo.Count()

		lap := watch.Lap()
		metrics.Supersteps.Inc()
		metrics.ComputedVertices.Add(float64(computed))
		metrics.MessagesSent.Add(float64(sent))
		metrics.ActiveVertices.Set(float64(active))
		metrics.SuperstepSeconds.Observe(lap.Seconds())
		log.Debug().Msg("Superstep " + utils.V(superstep) + " computed: " + utils.V(computed) + " sent: " + utils.V(sent) +
			" active next: " + utils.V(active) + " (ms): " + utils.F("%.3f", float64(lap.Microseconds())/1000.0))

		if active == 0 {
			return true, nil
		}
	}
	return false, nil
}

// Runs fn for every compute step on a pool bounded by Concurrency, and waits for all of them.
// The first error cancels the others and is returned as is.
func (p *Pregel) forEachStep(ctx context.Context, fn func(context.Context, *computeStep) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)
	for _, s := range p.steps {
		s := s // per-iteration copy (go < 1.22 loop semantics)
		g.Go(func() error {
			return fn(gctx, s)
		})
	}
	return g.Wait()
}

// Drops all per run state, including the values of the result.
func (p *Pregel) Release() {
	if p.store != nil {
		p.store.Release()
		p.store = nil
	}
	if p.values != nil {
		p.values.Release()
		p.values = nil
	}
	p.steps = nil
	p.sentTo, p.halted = nil, nil
	p.state.CompareAndSwap(uint32(Idle), uint32(Halted))
}

// Builds, runs and releases the queues of a computation. The values stay valid.
func Run(ctx context.Context, g graph.Graph, cfg Config, newProgram ProgramFactory) (Result, error) {
	p, err := New(g, cfg, newProgram)
	if err != nil {
		return Result{}, err
	}
	return p.runAndDropQueues(ctx)
}

// Runs, then drops everything but the values, also when a vertex program panics.
func (p *Pregel) runAndDropQueues(ctx context.Context) (Result, error) {
	defer func() {
		if p.store != nil {
			p.store.Release()
			p.store = nil
		}
		p.steps = nil
	}()
	return p.Run(ctx)
}
