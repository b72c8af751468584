package js

import (
	"strings"
	"testing"
)

func TestEventListenerDedup(t *testing.T) {
	r, doc := setupPage(t)

	eval(t, r, `
		var calls = 0;
		function handler() { calls++; }
		var btn = document.getElementById("counter");
		btn.addEventListener("click", handler);
		btn.addEventListener("click", handler);
		btn.addEventListener("click", handler, true);
	`)
	doc.GetElementById("counter").Click()
	// Same function and capture flag registers once.
	if got := eval(t, r, `calls`); got != int64(2) {
		t.Errorf("Expected 2 calls, got %v", got)
	}

	eval(t, r, `btn.removeEventListener("click", handler); btn.removeEventListener("click", handler, {capture: true})`)
	doc.GetElementById("counter").Click()
	if got := eval(t, r, `calls`); got != int64(2) {
		t.Errorf("Expected 2 calls after removal, got %v", got)
	}
}

func TestEventListenerOnce(t *testing.T) {
	r, _ := setupPage(t)

	got := eval(t, r, `
		var n = 0;
		var btn = document.getElementById("counter");
		btn.addEventListener("click", function() { n++; }, {once: true});
		btn.click();
		btn.click();
		n
	`)
	if got != int64(1) {
		t.Errorf("Expected once listener to run 1 time, got %v", got)
	}
}

func TestEventObject(t *testing.T) {
	r, _ := setupPage(t)

	eval(t, r, `
		var seen = {};
		var btn = document.getElementById("counter");
		btn.addEventListener("click", function(e) {
			seen.type = e.type;
			seen.trusted = e.isTrusted;
			seen.targetIsButton = e.target === btn;
			seen.thisIsButton = this === btn;
			seen.phase = e.eventPhase;
		});
		document.body.addEventListener("click", function(e) {
			seen.bubbledTo = e.currentTarget.tagName;
		});
		btn.click();
	`)

	tests := []struct {
		expr string
		want interface{}
	}{
		{`seen.type`, "click"},
		{`seen.trusted`, true},
		{`seen.targetIsButton`, true},
		{`seen.thisIsButton`, true},
		{`seen.phase`, int64(2)},
		{`seen.bubbledTo`, "BODY"},
	}
	for _, tt := range tests {
		if got := eval(t, r, tt.expr); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.expr, tt.want, got)
		}
	}
}

func TestDispatchSyntheticEvent(t *testing.T) {
	r, _ := setupPage(t)

	eval(t, r, `
		var got = null;
		var btn = document.getElementById("counter");
		btn.addEventListener("ping", function(e) { got = e; e.preventDefault(); });
		var ev = new Event("ping", {cancelable: true});
		var result = btn.dispatchEvent(ev);
	`)
	tests := []struct {
		expr string
		want bool
	}{
		{`got === ev`, true},
		{`result`, false},
		{`ev.isTrusted`, false},
		{`ev.defaultPrevented`, true},
	}
	for _, tt := range tests {
		if got := eval(t, r, tt.expr); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.expr, tt.want, got)
		}
	}

	if _, err := r.Execute(`new Event()`); err == nil {
		t.Error("Expected Event() without a type to throw")
	}
	if _, err := r.Execute(`btn.dispatchEvent({})`); err == nil {
		t.Error("Expected dispatchEvent of a non-event to throw")
	}
}

func TestStopPropagationFromScript(t *testing.T) {
	r, _ := setupPage(t)

	got := eval(t, r, `
		var reached = false;
		document.body.addEventListener("click", function() { reached = true; });
		document.getElementById("counter").addEventListener("click", function(e) { e.stopPropagation(); });
		document.getElementById("counter").click();
		reached
	`)
	if got != false {
		t.Error("Expected stopPropagation to keep the event from reaching body")
	}
}

func TestListenerExceptionIsReported(t *testing.T) {
	r, doc := setupPage(t)
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	eval(t, r, `
		var after = 0;
		var btn = document.getElementById("counter");
		btn.addEventListener("click", function() { throw new Error("listener failed"); });
		btn.addEventListener("click", function() { after++; });
	`)
	doc.GetElementById("counter").Click()

	if len(reported) != 1 {
		t.Fatalf("Expected 1 reported error, got %d", len(reported))
	}
	if !strings.Contains(reported[0].Error(), "listener failed") {
		t.Errorf("Expected 'listener failed', got %v", reported[0])
	}
	// Later listeners still run.
	if got := eval(t, r, `after`); got != int64(1) {
		t.Errorf("Expected after == 1, got %v", got)
	}
}
