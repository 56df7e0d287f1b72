package pregel

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ScottSallinen/pregel/graph"
)

const (
	DEFAULT_BATCH_SIZE    = 10_000
	CANCEL_CHECK_INTERVAL = 1024
)

var (
	ErrInvalidConfig        = errors.New("invalid pregel config")
	ErrUnsupportedDirection = errors.New("graph does not support the configured direction")
	ErrBoundedUnsupported   = errors.New("bounded queues need reverse degrees the graph cannot provide")
	ErrAlreadyRun           = errors.New("pregel computation already ran")
)

// How per node inboxes are stored.
type QueueStrategy uint8

const (
	QueueAuto      QueueStrategy = iota // Bounded when the graph has cheap reverse degrees, else unbounded.
	QueueBounded                        // One fixed ring per node, sized from its receive degree.
	QueueUnbounded                      // One linked list per node.
)

func (q QueueStrategy) String() string {
	switch q {
	case QueueAuto:
		return "auto"
	case QueueBounded:
		return "bounded"
	case QueueUnbounded:
		return "unbounded"
	}
	return fmt.Sprintf("QueueStrategy(%d)", uint8(q))
}

func ParseQueueStrategy(s string) (QueueStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return QueueAuto, nil
	case "bounded", "array":
		return QueueBounded, nil
	case "unbounded", "linked":
		return QueueUnbounded, nil
	}
	return QueueAuto, fmt.Errorf("unknown queue strategy %q", s)
}

func (q *QueueStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseQueueStrategy(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func (q QueueStrategy) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

type Config struct {
	MaxSupersteps int             `yaml:"maxSupersteps" validate:"gte=1"`
	Concurrency   int             `yaml:"concurrency" validate:"gte=1"`
	BatchSize     int             `yaml:"batchSize" validate:"gte=1"`
	Direction     graph.Direction `yaml:"direction" validate:"lte=2"` // Direction messages are sent along.
	Queue         QueueStrategy   `yaml:"queue" validate:"lte=2"`
	DefaultValue  float64         `yaml:"defaultValue"`
	InitialValues []float64       `yaml:"-"` // If set, one value per node; overrides DefaultValue.
}

func DefaultConfig() Config {
	return Config{
		MaxSupersteps: 20,
		Concurrency:   runtime.NumCPU(),
		BatchSize:     DEFAULT_BATCH_SIZE,
		Direction:     graph.OUTGOING,
		Queue:         QueueAuto,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Checks the config on its own. Graph dependent checks happen in New.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must be %s %s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
