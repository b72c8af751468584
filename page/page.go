// Package page holds a loaded page: its render tree, the serial dispatch
// thread every activation runs on, and the script runtime for its inline
// scripts.
package page

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chrisuehlinger/clickcounter/counter"
	"github.com/chrisuehlinger/clickcounter/dom"
	"github.com/chrisuehlinger/clickcounter/html"
	"github.com/chrisuehlinger/clickcounter/js"
)

// DefaultHTML is the built-in counter page: a #counter button and a #count
// display, plus an inline script that wires them together.
//
//go:embed assets/counter.html
var DefaultHTML string

// Page is a loaded document. All access to the document goes through the
// page, which runs one dispatch at a time.
type Page struct {
	doc    *dom.Document
	loop   *eventLoop
	logger zerolog.Logger

	mu         sync.Mutex
	runtime    *js.Runtime
	onDispatch func()
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger used by the page and its scripts.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// Load parses src and returns a page for it. Scripts are not run until
// RunScripts is called.
func Load(src string, opts ...Option) (*Page, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "load page")
	}
	p := &Page{
		doc:    doc,
		loop:   newEventLoop(),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger.Debug().Str("title", doc.Title()).Msg("page loaded")
	return p, nil
}

// Default loads the built-in counter page.
func Default(opts ...Option) (*Page, error) {
	return Load(DefaultHTML, opts...)
}

// Document returns the page's document. Callers must not touch it while the
// page is dispatching; use Do for that.
func (p *Page) Document() *dom.Document {
	return p.doc
}

// Title returns the document title.
func (p *Page) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Title()
}

// OnDispatch sets a function called after every dispatch completes, outside
// the page lock.
func (p *Page) OnDispatch(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDispatch = fn
}

// Do runs fn on the dispatch thread with exclusive access to the document.
func (p *Page) Do(fn func(doc *dom.Document)) {
	p.dispatch(func() { fn(p.doc) })
}

// InstallCounter installs a ClickCounter on the page. It fails with a
// counter.ResolutionError if either id is not in the document.
func (p *Page) InstallCounter(controlID, displayID string) (*counter.ClickCounter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := counter.Install(counter.NewDocumentHost(p.doc), controlID, displayID)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().
		Str("control", c.ControlID()).
		Str("display", c.DisplayID()).
		Msg("page counter installed")
	return c, nil
}

// RunScripts executes the page's inline scripts in document order. A failing
// script does not stop later ones; the first error is returned.
func (p *Page) RunScripts() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rt := p.scriptRuntime()
	var first error
	for i, src := range html.Scripts(p.doc) {
		name := fmt.Sprintf("inline-script-%d", i)
		if _, err := rt.ExecuteScript(src, name); err != nil && first == nil {
			first = errors.Wrap(err, name)
		}
	}
	return first
}

// RunScript executes code in the page's script runtime.
func (p *Page) RunScript(code, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.scriptRuntime().ExecuteScript(code, name)
	return err
}

// scriptRuntime returns the page's runtime, creating it on first use.
// Callers hold p.mu.
func (p *Page) scriptRuntime() *js.Runtime {
	if p.runtime == nil {
		p.runtime = js.NewRuntime()
		p.runtime.SetLogger(p.logger)
		js.NewDOMBinder(p.runtime).BindDocument(p.doc)
	}
	return p.runtime
}

// ScriptErrors returns the errors raised by page scripts so far, including
// ones thrown from event listeners.
func (p *Page) ScriptErrors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runtime == nil {
		return nil
	}
	return p.runtime.Errors()
}

// Click dispatches one activation on the element with the given id and waits
// for every listener to finish.
func (p *Page) Click(id string) error {
	el, err := p.element(id)
	if err != nil {
		return err
	}
	p.dispatch(el.Click)
	return nil
}

// Activate queues one activation on the element with the given id. It is
// delivered by Run or Drain after every activation queued before it.
func (p *Page) Activate(id string) error {
	el, err := p.element(id)
	if err != nil {
		return err
	}
	p.loop.queueTask(el.Click)
	return nil
}

// Run delivers queued activations as they arrive until ctx is done.
func (p *Page) Run(ctx context.Context) error {
	return p.loop.run(ctx, p.dispatch)
}

// Drain delivers every queued activation and returns how many ran.
func (p *Page) Drain() int {
	return p.loop.drain(p.dispatch)
}

// Pending reports whether activations are waiting to be delivered.
func (p *Page) Pending() bool {
	return p.loop.hasPending()
}

// Discard drops every queued activation.
func (p *Page) Discard() {
	p.loop.clear()
}

// Text returns the text content of the element with the given id.
func (p *Page) Text(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.doc.GetElementById(id)
	if el == nil {
		return "", notFound(id)
	}
	return el.TextContent(), nil
}

func (p *Page) element(id string) (*dom.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.doc.GetElementById(id)
	if el == nil {
		return nil, notFound(id)
	}
	return el, nil
}

func notFound(id string) error {
	return errors.WithStack(dom.ErrNotFound(fmt.Sprintf("no element with id %q", id)))
}

// dispatch runs t with the page lock held, then calls the dispatch hook.
// A panicking listener is logged and does not take the dispatch thread down.
func (p *Page) dispatch(t task) {
	p.mu.Lock()
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().Interface("panic", r).Msg("listener panicked during dispatch")
			}
		}()
		t()
	}()
	hook := p.onDispatch
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
}
