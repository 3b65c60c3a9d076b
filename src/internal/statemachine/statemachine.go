// Package statemachine sequences the hotspot: radio, addresses, DHCP, NAT
// and station bookkeeping.
//
// All state lives on a single goroutine draining the message queue. Driver
// and DHCP callbacks only enqueue messages, so handlers never need locks.
package statemachine

import (
	"context"
	"sync/atomic"

	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/events"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/models"
	"github.com/maksimkurb/keen-softap/src/internal/stations"
)

// DefaultQueueSize is the message queue capacity used when Options leaves it unset.
const DefaultQueueSize = 64

// Callbacks notify the facade. They run on the state machine goroutine and
// must not block.
type Callbacks struct {
	OnStateChanged func(state models.ApState)
	OnStationJoin  func(info models.StationInfo)
	OnStationLeave func(info models.StationInfo)
}

// Options wires a StateMachine to its collaborators. A nil Registry is
// replaced by one backed by Driver and Store.
type Options struct {
	Store     domain.SettingsStore
	Driver    domain.HotspotDriver
	Dhcp      domain.DhcpService
	Nat       domain.NatController
	Registry  *stations.Registry
	Callbacks Callbacks
	QueueSize int
}

// state is one node of the machine. ExecuteStateMsg returns false for
// messages the state does not handle; they fall through to the root state.
type state interface {
	Name() string
	GoInState()
	GoOutState()
	ExecuteStateMsg(msg events.Message) bool
}

// StateMachine drives the hotspot through Idle and Started.
type StateMachine struct {
	store     domain.SettingsStore
	driver    domain.HotspotDriver
	dhcp      domain.DhcpService
	nat       domain.NatController
	registry  *stations.Registry
	callbacks Callbacks

	queue   chan events.Message
	apState atomic.Int32

	idle    *idleState
	started *startedState
	root    *rootState
	current state
	pending state
}

// New returns a machine in the Idle state. Call Run to start processing.
func New(opts Options) *StateMachine {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	registry := opts.Registry
	if registry == nil {
		registry = stations.NewRegistry(opts.Driver, opts.Store)
	}

	m := &StateMachine{
		store:     opts.Store,
		driver:    opts.Driver,
		dhcp:      opts.Dhcp,
		nat:       opts.Nat,
		registry:  registry,
		callbacks: opts.Callbacks,
		queue:     make(chan events.Message, size),
	}
	m.idle = &idleState{m: m}
	m.started = &startedState{m: m}
	m.root = &rootState{m: m}
	m.current = m.idle
	m.apState.Store(int32(models.ApStateIdle))
	return m
}

// State returns the externally visible state. Safe for concurrent use.
func (m *StateMachine) State() models.ApState {
	return models.ApState(m.apState.Load())
}

// SendMessage enqueues msg, blocking while the queue is full.
func (m *StateMachine) SendMessage(msg events.Message) {
	m.queue <- msg
}

// Run processes messages until ctx is cancelled. A running hotspot is torn
// down before Run returns.
func (m *StateMachine) Run(ctx context.Context) error {
	log.Infof("State machine started in %s state", m.current.Name())
	for {
		select {
		case <-ctx.Done():
			if m.current != m.idle {
				log.Infof("Shutting down, stopping hotspot")
				m.transitionTo(m.idle)
				m.applyTransitions()
			}
			return nil
		case msg := <-m.queue:
			m.process(msg)
		}
	}
}

// process handles one message and then applies any requested transition.
func (m *StateMachine) process(msg events.Message) {
	log.Debugf("[%s] handling %s", m.current.Name(), msg.Kind())
	if !m.current.ExecuteStateMsg(msg) {
		m.root.ExecuteStateMsg(msg)
	}
	m.applyTransitions()
}

// transitionTo requests a transition. It takes effect once the running
// handler returns.
func (m *StateMachine) transitionTo(s state) {
	m.pending = s
}

func (m *StateMachine) applyTransitions() {
	for m.pending != nil {
		next := m.pending
		m.pending = nil
		if next == m.current {
			continue
		}
		log.Infof("State %s -> %s", m.current.Name(), next.Name())
		m.current.GoOutState()
		m.current = next
		m.current.GoInState()
	}
}

func (m *StateMachine) announce(s models.ApState) {
	m.apState.Store(int32(s))
	log.Infof("Hotspot is %s", s)
	if m.callbacks.OnStateChanged != nil {
		m.callbacks.OnStateChanged(s)
	}
}

func (m *StateMachine) interfaceName() string {
	return m.driver.InterfaceName()
}
