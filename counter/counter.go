// Package counter implements ClickCounter: it counts activations of a control
// and writes the running count into a display element.
//
// A ClickCounter owns its count. Installing twice on the same control gives
// two independent subscriptions with two independent counts; installs are not
// deduplicated. There is no uninstall.
package counter

import (
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Activation is the event kind a ClickCounter subscribes to.
const Activation = "click"

// ClickCounter tracks how many times its control was activated.
type ClickCounter struct {
	host    Host
	display Handle
	count   atomic.Int64

	controlID string
	displayID string
}

// Install resolves controlID and displayID on host and subscribes to
// activations of the control. If either identifier does not resolve it
// returns a *ResolutionError and nothing is subscribed.
//
// Install writes nothing to the display; it keeps its existing content until
// the first activation.
func Install(host Host, controlID, displayID string) (*ClickCounter, error) {
	control, ok := host.Resolve(controlID)
	if !ok {
		return nil, errors.WithStack(&ResolutionError{Role: "control", ID: controlID})
	}
	display, ok := host.Resolve(displayID)
	if !ok {
		return nil, errors.WithStack(&ResolutionError{Role: "display", ID: displayID})
	}

	c := &ClickCounter{
		host:      host,
		display:   display,
		controlID: controlID,
		displayID: displayID,
	}
	host.Subscribe(control, Activation, c.activate)

	log.Debug().
		Str("control", controlID).
		Str("display", displayID).
		Msg("click counter installed")
	return c, nil
}

// activate is the activation handler. The host delivers activations one at a
// time, so the increment and the write always pair up.
func (c *ClickCounter) activate() {
	n := c.count.Add(1)
	c.host.SetText(c.display, strconv.FormatInt(n, 10))
}

// ControlID returns the identifier of the control the counter listens on.
func (c *ClickCounter) ControlID() string { return c.controlID }

// DisplayID returns the identifier of the element the counter writes to.
func (c *ClickCounter) DisplayID() string { return c.displayID }

// Count returns the number of activations seen so far.
func (c *ClickCounter) Count() int {
	return int(c.count.Load())
}
