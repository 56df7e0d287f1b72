package pregel

import (
	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/queue"
)

// Per vertex logic. Compute is called once per eligible vertex per superstep.
// An instance is only ever used by one goroutine at a time.
type VertexProgram interface {
	Compute(ctx *Context, messages *Messages) error
}

// Creates one program instance per compute step.
type ProgramFactory func() VertexProgram

// Optional. Programs returning true skip barrier insertion: a vertex may then see messages
// sent during the current superstep, and results may depend on scheduling.
type AsyncProgram interface {
	SupportsAsyncExecution() bool
}

func supportsAsync(p VertexProgram) bool {
	a, ok := p.(AsyncProgram)
	return ok && a.SupportsAsyncExecution()
}

// The view a vertex program has of the current vertex. Only valid during Compute.
type Context struct {
	step      *computeStep
	node      uint32
	superstep int
	halt      bool
}

func (c *Context) NodeID() uint32 {
	return c.node
}

func (c *Context) Superstep() int {
	return c.superstep
}

func (c *Context) IsInitialSuperstep() bool {
	return c.superstep == 0
}

func (c *Context) NodeCount() uint32 {
	return c.step.nodeCount
}

// The value of the current vertex.
func (c *Context) Value() float64 {
	return c.step.values.Get(uint64(c.node))
}

func (c *Context) SetValue(value float64) {
	c.step.values.Set(uint64(c.node), value)
}

// Sends the value along every relationship of the configured direction.
// The receivers become active in the next superstep.
func (c *Context) SendToNeighbors(value float64) {
	s := c.step
	s.graph.ForEachRelationship(c.node, s.direction, func(_, target uint32) bool {
		s.store.Push(target, value)
		s.senders.Set(target) // Holds receivers: it activates them next superstep.
		s.messagesSent++
		return true
	})
}

// Skips this vertex in later supersteps until it receives a message.
func (c *Context) VoteToHalt() {
	c.halt = true
}

// Degree in the configured direction.
func (c *Context) Degree() int {
	return c.step.graph.Degree(c.node, c.step.direction)
}

func (c *Context) DegreeIn(dir graph.Direction) int {
	return c.step.graph.Degree(c.node, dir)
}

// Iterator over the inbox of the current vertex.
// In barrier mode it yields the messages of the previous superstep; in async mode whatever is queued.
type Messages struct {
	store   queue.Store
	node    uint32
	done    bool
	hasNext bool
	next    float64
	value   float64
}

func (m *Messages) reset(store queue.Store, node uint32, received bool) {
	m.store = store
	m.node = node
	m.done = !received
	m.hasNext = false
}

func (m *Messages) fill() {
	if m.done || m.hasNext {
		return
	}
	item, ok := m.store.Pop(m.node)
	if !ok || item.IsBarrier() {
		m.done = true
		return
	}
	m.next = item.Value
	m.hasNext = true
}

// Advances to the next message. Value is valid after it returns true.
func (m *Messages) Next() bool {
	m.fill()
	if !m.hasNext {
		return false
	}
	m.value = m.next
	m.hasNext = false
	return true
}

func (m *Messages) Value() float64 {
	return m.value
}

// True when no further message is available.
func (m *Messages) Empty() bool {
	m.fill()
	return !m.hasNext
}

// Drops whatever the program left unread, up to the same point Next would stop.
func (m *Messages) discard() {
	for m.Next() {
	}
}
