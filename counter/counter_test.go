package counter

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/clickcounter/dom"
	"github.com/chrisuehlinger/clickcounter/html"
)

// fakeHost is an in-memory Host whose handles are identifier strings.
type fakeHost struct {
	text        map[string]string
	subscribers map[string][]func()
	writes      int
}

func newFakeHost(ids ...string) *fakeHost {
	h := &fakeHost{
		text:        make(map[string]string),
		subscribers: make(map[string][]func()),
	}
	for _, id := range ids {
		h.text[id] = "initial"
	}
	return h
}

func (h *fakeHost) Resolve(id string) (Handle, bool) {
	if _, ok := h.text[id]; !ok {
		return nil, false
	}
	return id, true
}

func (h *fakeHost) Subscribe(handle Handle, kind string, fn func()) {
	key := handle.(string) + "/" + kind
	h.subscribers[key] = append(h.subscribers[key], fn)
}

func (h *fakeHost) SetText(handle Handle, value string) {
	h.writes++
	h.text[handle.(string)] = value
}

func (h *fakeHost) fire(id string) {
	for _, fn := range h.subscribers[id+"/"+Activation] {
		fn()
	}
}

func TestInstall_ThreeActivations(t *testing.T) {
	host := newFakeHost("counter", "count")
	c, err := Install(host, "counter", "count")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		host.fire("counter")
	}

	assert.Equal(t, "3", host.text["count"])
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "counter", c.ControlID())
	assert.Equal(t, "count", c.DisplayID())
}

func TestInstall_DisplayTracksEveryActivation(t *testing.T) {
	host := newFakeHost("counter", "count")
	_, err := Install(host, "counter", "count")
	require.NoError(t, err)

	for k := 1; k <= 25; k++ {
		host.fire("counter")
		require.Equal(t, strconv.Itoa(k), host.text["count"], "after activation %d", k)
	}
	assert.Equal(t, 25, host.writes)
}

func TestInstall_NoActivationLeavesDisplayAlone(t *testing.T) {
	host := newFakeHost("counter", "count")
	c, err := Install(host, "counter", "count")
	require.NoError(t, err)

	assert.Equal(t, "initial", host.text["count"])
	assert.Zero(t, host.writes)
	assert.Zero(t, c.Count())
}

func TestInstall_ResolutionFailure(t *testing.T) {
	tests := []struct {
		name      string
		controlID string
		displayID string
		wantRole  string
		wantID    string
	}{
		{name: "missing control", controlID: "nope", displayID: "count", wantRole: "control", wantID: "nope"},
		{name: "missing display", controlID: "counter", displayID: "nope", wantRole: "display", wantID: "nope"},
		{name: "both missing", controlID: "a", displayID: "b", wantRole: "control", wantID: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost("counter", "count")
			c, err := Install(host, tt.controlID, tt.displayID)

			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrResolution))

			var re *ResolutionError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.wantRole, re.Role)
			assert.Equal(t, tt.wantID, re.ID)

			assert.Empty(t, host.subscribers, "no subscription may be created on failure")
		})
	}
}

func TestInstall_TwiceKeepsIndependentCounters(t *testing.T) {
	host := newFakeHost("counter", "a", "b")
	first, err := Install(host, "counter", "a")
	require.NoError(t, err)

	host.fire("counter")
	host.fire("counter")

	second, err := Install(host, "counter", "b")
	require.NoError(t, err)

	host.fire("counter")

	assert.Equal(t, 3, first.Count())
	assert.Equal(t, 1, second.Count())
	assert.Equal(t, "3", host.text["a"])
	assert.Equal(t, "1", host.text["b"])
	assert.Len(t, host.subscribers["counter/"+Activation], 2)
}

func TestInstall_SameDisplayTwice(t *testing.T) {
	host := newFakeHost("counter", "count")
	_, err := Install(host, "counter", "count")
	require.NoError(t, err)
	_, err = Install(host, "counter", "count")
	require.NoError(t, err)

	host.fire("counter")
	host.fire("counter")

	// Both counters write; the later subscription runs last.
	assert.Equal(t, "2", host.text["count"])
	assert.Equal(t, 4, host.writes)
}

const page = `<!DOCTYPE html><html><body>
<button id="counter">Clicks: <span id="count">none yet</span></button>
<p id="other">unrelated</p>
</body></html>`

func TestDocumentHost_Click(t *testing.T) {
	doc, err := html.Parse(page)
	require.NoError(t, err)

	c, err := Install(NewDocumentHost(doc), "counter", "count")
	require.NoError(t, err)

	count := doc.GetElementById("count")
	assert.Equal(t, "none yet", count.TextContent())

	btn := doc.GetElementById("counter")
	btn.Click()
	btn.Click()
	btn.Click()

	assert.Equal(t, "3", count.TextContent())
	assert.Equal(t, "Clicks: 3", btn.TextContent())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "unrelated", doc.GetElementById("other").TextContent())
}

func TestDocumentHost_ClickOnDescendantBubbles(t *testing.T) {
	doc, err := html.Parse(page)
	require.NoError(t, err)

	_, err = Install(NewDocumentHost(doc), "counter", "count")
	require.NoError(t, err)

	// A click on the span inside the button reaches the button.
	doc.GetElementById("count").Click()
	assert.Equal(t, "1", doc.GetElementById("count").TextContent())
}

func TestDocumentHost_OtherEventsIgnored(t *testing.T) {
	doc, err := html.Parse(page)
	require.NoError(t, err)

	_, err = Install(NewDocumentHost(doc), "counter", "count")
	require.NoError(t, err)

	btn := doc.GetElementById("counter").AsNode()
	_, err = btn.DispatchEvent(dom.NewEvent("keydown", true, false))
	require.NoError(t, err)

	assert.Equal(t, "none yet", doc.GetElementById("count").TextContent())
}

func TestDocumentHost_Resolve(t *testing.T) {
	doc, err := html.Parse(page)
	require.NoError(t, err)
	host := NewDocumentHost(doc)

	h, ok := host.Resolve("counter")
	require.True(t, ok)
	assert.IsType(t, &dom.Element{}, h)

	_, ok = host.Resolve("missing")
	assert.False(t, ok)
	_, ok = host.Resolve("")
	assert.False(t, ok)

	_, err = Install(host, "missing", "count")
	assert.ErrorIs(t, err, ErrResolution)
}
