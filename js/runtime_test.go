package js

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestRuntimeExecute(t *testing.T) {
	r := NewRuntime()

	result, err := r.Execute("1 + 2")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 3 {
		t.Errorf("Expected 3, got %v", result.ToInteger())
	}
}

func TestRuntimeExecuteErrors(t *testing.T) {
	r := NewRuntime()
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	_, err := r.Execute("throw new Error('boom')")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected error containing 'boom', got %v", err)
	}

	if _, err := r.Execute("function ("); err == nil {
		t.Error("Expected a syntax error")
	}

	if len(r.Errors()) != 2 {
		t.Errorf("Expected 2 recorded errors, got %d", len(r.Errors()))
	}
	if len(reported) != 2 {
		t.Errorf("Expected 2 reported errors, got %d", len(reported))
	}

	r.ClearErrors()
	if len(r.Errors()) != 0 {
		t.Errorf("Expected no errors after ClearErrors, got %d", len(r.Errors()))
	}
}

func TestRuntimeOnErrorMayReadErrors(t *testing.T) {
	r := NewRuntime()
	r.SetLogger(zerolog.Nop())
	var seen int
	r.SetOnError(func(error) { seen = len(r.Errors()) })

	if _, err := r.Execute("throw new Error('boom')"); err == nil {
		t.Fatal("Expected an error")
	}
	if seen != 1 {
		t.Errorf("Expected the callback to see 1 error, got %d", seen)
	}
}

func TestRuntimeListenerErrorsConcurrentWithErrors(t *testing.T) {
	r, doc := setupPage(t)
	r.SetLogger(zerolog.Nop())
	eval(t, r, `document.getElementById("counter").addEventListener("click", function() { throw new Error("x"); })`)

	const clicks = 100
	btn := doc.GetElementById("counter")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < clicks; i++ {
			btn.Click()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < clicks; i++ {
			_ = r.Errors()
		}
	}()
	wg.Wait()

	if got := len(r.Errors()); got != clicks {
		t.Errorf("Expected %d listener errors, got %d", clicks, got)
	}
}

func TestRuntimeConsole(t *testing.T) {
	var buf bytes.Buffer
	r := NewRuntime()
	r.SetLogger(zerolog.New(&buf))

	_, err := r.Execute(`console.log("count", 3, null, undefined); console.warn("careful")`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"message":"count 3 null undefined"`,
		`"level":"info"`,
		`"level":"warn"`,
		`"source":"console"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %s, got %s", want, out)
		}
	}
}

func TestRuntimeWindowIsGlobal(t *testing.T) {
	r := NewRuntime()
	result, err := r.Execute("var x = 5; window.x")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 5 {
		t.Errorf("Expected 5, got %v", result.ToInteger())
	}
}
