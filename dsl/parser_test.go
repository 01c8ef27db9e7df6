package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/paraflow/dsl"
)

const sampleDSL = `
// 示例文档
paragraph {
  "Hello, ${user.name}!" bold { "strong" italic { "both" } }
  color #0F62FE { "blue words" }
  link "https://example.com" "see the docs"
  box 30 20 15 "f(x)"
}

list {
  paragraph { "first item" }
  paragraph { "second item" }
}
center { paragraph { "centered" } }
rule; paragraph { "tail" }
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Statements) != 5 {
		t.Fatalf("expected 5 top-level statements, got %d", len(doc.Statements))
	}
	kinds := []string{}
	for _, st := range doc.Statements {
		kinds = append(kinds, st.Kind())
	}
	if got := strings.Join(kinds, ","); got != "paragraph,list,center,rule,paragraph" {
		t.Fatalf("unexpected statement kinds: %s", got)
	}

	para := doc.Statements[0].Command
	if para.Block == nil || len(para.Block.Statements) != 5 {
		t.Fatalf("paragraph body should have 5 statements, got %+v", para.Block)
	}
	first := para.Block.Statements[0].Text
	if first == nil || !strings.Contains(string(first.Value), "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %+v", para.Block.Statements[0])
	}

	bold := para.Block.Statements[1].Command
	if bold == nil || bold.Name != "bold" || len(bold.Block.Statements) != 2 {
		t.Fatalf("unexpected bold command: %+v", para.Block.Statements[1])
	}
	if inner := bold.Block.Statements[1].Command; inner == nil || inner.Name != "italic" {
		t.Fatalf("expected nested italic, got %+v", bold.Block.Statements[1])
	}

	color := para.Block.Statements[2].Command
	if color == nil || len(color.Args) != 1 || color.Args[0].Color == nil || *color.Args[0].Color != "#0F62FE" {
		t.Fatalf("unexpected color args: %+v", color)
	}

	link := para.Block.Statements[3].Command
	if link == nil || len(link.Args) != 2 || string(*link.Args[1].String) != "see the docs" {
		t.Fatalf("unexpected link command: %+v", link)
	}
	if link.Block != nil {
		t.Fatalf("link must not have a body")
	}

	box := para.Block.Statements[4].Command
	if box == nil || len(box.Args) != 4 {
		t.Fatalf("unexpected box command: %+v", box)
	}
	if *box.Args[0].Number != 30 || *box.Args[2].Number != 15 {
		t.Fatalf("unexpected box numbers: %s %s", box.Args[0].Literal(), box.Args[2].Literal())
	}
	if got := box.Args[3].Literal(); got != `"f(x)"` {
		t.Fatalf("unexpected literal %s", got)
	}
}

func TestParseRejectsUnclosedBlock(t *testing.T) {
	if _, err := dsl.ParseString(`paragraph { "open"`); err == nil {
		t.Fatalf("expected error for unclosed block")
	}
}

func TestParseEmpty(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("\n// nothing here\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Statements) != 0 {
		t.Fatalf("expected no statements, got %d", len(doc.Statements))
	}
}
