// Package chart builds hsmx machines from declarative YAML definitions.
// Callbacks are referenced by name and bound through a Registry at build
// time; all structural problems (unknown states or callbacks, missing
// initial children, unguarded self loops) surface as errors before a
// scheduler exists.
package chart

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statomat/hsmx"
)

var (
	// ErrNoStates reports a definition without any states.
	ErrNoStates = errors.New("chart: no states defined")

	// ErrUnknownState reports a reference to a state name the definition
	// never declares.
	ErrUnknownState = errors.New("chart: unknown state")

	// ErrDuplicateState reports two states sharing one name. Chart names
	// form a single flat namespace across nesting levels.
	ErrDuplicateState = errors.New("chart: duplicate state name")

	// ErrMissingInitial reports a composite state or chart without an
	// initial state.
	ErrMissingInitial = errors.New("chart: missing initial state")

	// ErrUnknownRef reports a callback name with no registry binding.
	ErrUnknownRef = errors.New("chart: unknown callback reference")
)

// Definition is the top-level YAML shape of a chart.
type Definition struct {
	Name    string     `yaml:"name"`
	Initial string     `yaml:"initial"`
	States  []StateDef `yaml:"states"`
}

// StateDef declares one state. A StateDef with nested States becomes a
// SubstateMachine and must name an Initial child.
type StateDef struct {
	Name        string            `yaml:"name"`
	Entry       string            `yaml:"entry,omitempty"`
	Exit        string            `yaml:"exit,omitempty"`
	Default     string            `yaml:"default,omitempty"`
	Handlers    map[string]string `yaml:"handlers,omitempty"`
	Initial     string            `yaml:"initial,omitempty"`
	States      []StateDef        `yaml:"states,omitempty"`
	Transitions []TransitionDef   `yaml:"transitions,omitempty"`
}

// TransitionDef declares one outbound transition. On, Guard and Action are
// optional; omitting On yields a triggerless transition.
type TransitionDef struct {
	To     string `yaml:"to"`
	On     string `yaml:"on,omitempty"`
	Guard  string `yaml:"guard,omitempty"`
	Action string `yaml:"action,omitempty"`
}

// Chart is a built machine definition: a start node plus a name index over
// every node in the tree.
type Chart struct {
	name  string
	start hsmx.Node
	nodes map[string]hsmx.Node
}

// Name returns the chart's declared name.
func (c *Chart) Name() string {
	return c.name
}

// Start returns the chart's start node.
func (c *Chart) Start() hsmx.Node {
	return c.start
}

// Node returns the node declared under name.
func (c *Chart) Node(name string) (hsmx.Node, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// Scheduler builds a scheduler resting at the chart's start node. The
// start node's entry chain runs immediately.
func (c *Chart) Scheduler(opts ...hsmx.Option) (*hsmx.Scheduler, error) {
	return hsmx.New(c.start, opts...)
}

// Parse decodes a YAML chart definition. Structural validation happens in
// Build, once callback names can be resolved.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("chart: parse: %w", err)
	}
	return &def, nil
}

// Load reads a YAML chart from path and builds it against reg.
func Load(path string, reg *Registry) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chart: read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(def, reg)
}

// Build validates def and assembles the machine, binding callbacks from
// reg. Definitions that a hand-built machine would reject by panicking —
// unguarded self loops, missing targets — are reported as errors here
// instead, since chart data arrives at runtime.
func Build(def *Definition, reg *Registry) (*Chart, error) {
	if len(def.States) == 0 {
		return nil, ErrNoStates
	}
	if def.Initial == "" {
		return nil, fmt.Errorf("chart %q: %w", def.Name, ErrMissingInitial)
	}
	if reg == nil {
		reg = NewRegistry()
	}

	b := &builder{reg: reg, nodes: make(map[string]hsmx.Node)}
	for i := range def.States {
		if _, err := b.buildNode(&def.States[i]); err != nil {
			return nil, err
		}
	}
	for i := range def.States {
		if err := b.wire(&def.States[i]); err != nil {
			return nil, err
		}
	}

	start, ok := b.nodes[def.Initial]
	if !ok {
		return nil, fmt.Errorf("chart %q: initial %q: %w", def.Name, def.Initial, ErrUnknownState)
	}

	return &Chart{name: def.Name, start: start, nodes: b.nodes}, nil
}

type builder struct {
	reg   *Registry
	nodes map[string]hsmx.Node
}

// configurable is the builder surface shared by State and SubstateMachine.
type configurable interface {
	AddHandler(hsmx.EventType, hsmx.Handler) *hsmx.State
	AddTransition(hsmx.Node, ...hsmx.TransitionOption) *hsmx.State
}

// buildNode creates the node for def, building nested children first so a
// composite can reference its initial child.
func (b *builder) buildNode(def *StateDef) (hsmx.Node, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("chart: state without a name")
	}
	if _, exists := b.nodes[def.Name]; exists {
		return nil, fmt.Errorf("state %q: %w", def.Name, ErrDuplicateState)
	}

	opts, err := b.stateOptions(def)
	if err != nil {
		return nil, err
	}

	var node hsmx.Node
	if len(def.States) > 0 {
		if def.Initial == "" {
			return nil, fmt.Errorf("state %q: %w", def.Name, ErrMissingInitial)
		}
		// Reserve the name before descending so children cannot take it.
		b.nodes[def.Name] = nil
		for i := range def.States {
			if _, err := b.buildNode(&def.States[i]); err != nil {
				return nil, err
			}
		}
		initial, ok := b.nodes[def.Initial]
		if !ok || initial == nil {
			return nil, fmt.Errorf("state %q: initial %q: %w", def.Name, def.Initial, ErrUnknownState)
		}
		node = hsmx.NewSubstateMachine(def.Name, initial, opts...)
	} else {
		if def.Initial != "" {
			return nil, fmt.Errorf("state %q: initial %q: %w", def.Name, def.Initial, ErrUnknownState)
		}
		node = hsmx.NewState(def.Name, opts...)
	}

	b.nodes[def.Name] = node
	return node, nil
}

func (b *builder) stateOptions(def *StateDef) ([]hsmx.StateOption, error) {
	var opts []hsmx.StateOption
	if def.Entry != "" {
		a, err := b.reg.action(def.Entry)
		if err != nil {
			return nil, fmt.Errorf("state %q: entry: %w", def.Name, err)
		}
		opts = append(opts, hsmx.WithEntry(a))
	}
	if def.Exit != "" {
		a, err := b.reg.action(def.Exit)
		if err != nil {
			return nil, fmt.Errorf("state %q: exit: %w", def.Name, err)
		}
		opts = append(opts, hsmx.WithExit(a))
	}
	if def.Default != "" {
		h, err := b.reg.handler(def.Default)
		if err != nil {
			return nil, fmt.Errorf("state %q: default: %w", def.Name, err)
		}
		opts = append(opts, hsmx.WithDefaultHandler(h))
	}
	return opts, nil
}

// wire adds handlers and transitions to an already-built node, recursing
// into nested states.
func (b *builder) wire(def *StateDef) error {
	add, ok := b.nodes[def.Name].(configurable)
	if !ok {
		return fmt.Errorf("state %q: %w", def.Name, ErrUnknownState)
	}

	for trigger, name := range def.Handlers {
		h, err := b.reg.handler(name)
		if err != nil {
			return fmt.Errorf("state %q: handler for %q: %w", def.Name, trigger, err)
		}
		add.AddHandler(hsmx.EventType(trigger), h)
	}

	for _, td := range def.Transitions {
		target, ok := b.nodes[td.To]
		if !ok {
			return fmt.Errorf("state %q: transition to %q: %w", def.Name, td.To, ErrUnknownState)
		}
		if td.To == def.Name && td.Guard == "" {
			return fmt.Errorf("state %q: %w", def.Name, hsmx.ErrUnguardedSelfTransition)
		}

		var topts []hsmx.TransitionOption
		if td.On != "" {
			topts = append(topts, hsmx.On(hsmx.EventType(td.On)))
		}
		if td.Guard != "" {
			g, err := b.reg.guard(td.Guard)
			if err != nil {
				return fmt.Errorf("state %q: %w", def.Name, err)
			}
			topts = append(topts, hsmx.When(g))
		}
		if td.Action != "" {
			h, err := b.reg.handler(td.Action)
			if err != nil {
				return fmt.Errorf("state %q: action: %w", def.Name, err)
			}
			topts = append(topts, hsmx.Do(h))
		}
		add.AddTransition(target, topts...)
	}

	for i := range def.States {
		if err := b.wire(&def.States[i]); err != nil {
			return err
		}
	}
	return nil
}
