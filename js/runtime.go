// Package js provides JavaScript execution for pages.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CounterScript is a page script that installs a click counter on
// #counter, writing into #count.
//
//go:embed scripts/counter.js
var CounterScript string

// Runtime wraps a goja JavaScript runtime with page-specific globals.
//
// mu serializes script execution. stateMu guards the logger and the error
// list, which listeners reach from dispatches that do not hold mu.
type Runtime struct {
	vm      *goja.Runtime
	console *goja.Object
	mu      sync.Mutex

	stateMu sync.Mutex
	logger  zerolog.Logger
	errors  []error
	onError func(error)
}

// NewRuntime creates a new JavaScript runtime with a console.
func NewRuntime() *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		logger: log.With().Str("source", "console").Logger(),
	}
	r.setupConsole()
	r.vm.Set("window", r.vm.GlobalObject())
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetLogger replaces the logger console output is written to.
func (r *Runtime) SetLogger(logger zerolog.Logger) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.logger = logger.With().Str("source", "console").Logger()
}

// SetOnError sets a callback for JavaScript errors, including ones thrown by
// event listeners.
func (r *Runtime) SetOnError(handler func(error)) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (goja.Value, error) {
	return r.ExecuteScript(code, "")
}

// ExecuteScript compiles and runs code. name is used in stack traces.
// Scripts run in sloppy mode unless they opt into strict mode themselves.
func (r *Runtime) ExecuteScript(code, name string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// goja's parser can panic on malformed input.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(name, code, false)
	if err != nil {
		err = errors.Wrap(err, "compile script")
		r.recordError(err)
		return nil, err
	}

	result, err = r.vm.RunProgram(program)
	if err != nil {
		err = errors.Wrap(err, "run script")
		r.recordError(err)
		return nil, err
	}
	return result, nil
}

// recordError stores err and forwards it to the error callback. The callback
// runs without stateMu held, so it may call Errors.
func (r *Runtime) recordError(err error) {
	r.stateMu.Lock()
	r.errors = append(r.errors, err)
	logger, handler := r.logger, r.onError
	r.stateMu.Unlock()

	logger.Error().Err(err).Msg("uncaught script error")
	if handler != nil {
		handler(err)
	}
}

// currentLogger returns the console logger.
func (r *Runtime) currentLogger() zerolog.Logger {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.logger
}

// reportListenerError records an exception thrown by an event listener.
// Listeners run from Go-initiated dispatch without r.mu held and from
// script-initiated dispatch with it held, so this takes only stateMu.
func (r *Runtime) reportListenerError(err error) {
	r.recordError(errors.Wrap(err, "event listener"))
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole creates the console object. Each method logs at its level.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	levels := map[string]zerolog.Level{
		"log":   zerolog.InfoLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"debug": zerolog.DebugLevel,
	}
	for name, level := range levels {
		name, level := name, level
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			logger := r.currentLogger()
			logger.WithLevel(level).Str("method", name).Msg(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	r.console = console
	r.vm.Set("console", console)
}

// formatArgs formats console arguments, space separated.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
