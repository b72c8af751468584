package html

import (
	"strings"
	"testing"

	"github.com/chrisuehlinger/clickcounter/dom"
)

func TestParse_Basic(t *testing.T) {
	doc, err := Parse(`<!DOCTYPE html><html><head><title> Counter   page </title></head>
<body><button id="counter" class="btn primary">Click me</button><span id="count">0</span></body></html>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if first := doc.AsNode().FirstChild(); first == nil || first.NodeType() != dom.DocumentTypeNode {
		t.Error("Expected a doctype as the first child")
	}
	if doc.Title() != "Counter page" {
		t.Errorf("Expected title 'Counter page', got '%s'", doc.Title())
	}

	btn := doc.GetElementById("counter")
	if btn == nil {
		t.Fatal("Expected #counter")
	}
	if btn.TagName() != "BUTTON" {
		t.Errorf("Expected BUTTON, got %s", btn.TagName())
	}
	if !btn.ClassList().Contains("primary") {
		t.Error("Expected class primary")
	}
	if btn.TextContent() != "Click me" {
		t.Errorf("Expected 'Click me', got '%s'", btn.TextContent())
	}
	if span := doc.GetElementById("count"); span == nil || span.TextContent() != "0" {
		t.Error("Expected #count with text 0")
	}
}

func TestParse_ImpliedElements(t *testing.T) {
	doc, err := Parse(`<p id="only">hello`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.DocumentElement() == nil || doc.Head() == nil || doc.Body() == nil {
		t.Fatal("Expected html, head and body to be implied")
	}
	p := doc.GetElementById("only")
	if p == nil || p.AsNode().ParentElement() != doc.Body() {
		t.Error("Expected <p> inside <body>")
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(`<ul id="list"><li>a<li>b<li>c</ul>`))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	list := doc.GetElementById("list")
	if list == nil || list.ChildElementCount() != 3 {
		t.Fatal("Expected three list items")
	}
	if list.LastElementChild().TextContent() != "c" {
		t.Errorf("Expected last item 'c', got '%s'", list.LastElementChild().TextContent())
	}
}

func TestScripts(t *testing.T) {
	doc, err := Parse(`<html><head>
<script>var a = 1;</script>
<script src="remote.js"></script>
<script type="text/template"><b>x</b></script>
</head><body><script type="text/javascript">var b = 2;</script></body></html>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	scripts := Scripts(doc)
	if len(scripts) != 2 {
		t.Fatalf("Expected 2 inline scripts, got %d: %q", len(scripts), scripts)
	}
	if scripts[0] != "var a = 1;" || scripts[1] != "var b = 2;" {
		t.Errorf("Unexpected scripts %q", scripts)
	}
}
