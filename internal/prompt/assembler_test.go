package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ymaeda-ai/insurag/internal/llm"
	"github.com/ymaeda-ai/insurag/internal/retriever"
)

func passage(text string) retriever.Passage {
	return retriever.Passage{Text: text, DocumentID: "doc.txt", Corpus: "existing"}
}

func TestAssembleContextEmptyInput(t *testing.T) {
	got := AssembleContext(nil, 800, 3200)
	if got != NoContextMarker {
		t.Errorf("expected the no-context marker, got %q", got)
	}
}

func TestAssembleContextTruncatesPassages(t *testing.T) {
	long := strings.Repeat("x", 1000)
	got := AssembleContext([]retriever.Passage{passage(long)}, 100, 3200)
	if len(got) != 100 {
		t.Errorf("expected passage truncated to 100 chars, got %d", len(got))
	}
}

func TestAssembleContextTruncatesMultibyteAtRuneBoundary(t *testing.T) {
	long := strings.Repeat("保険料は十万円です。", 30) // 300 runes
	got := AssembleContext([]retriever.Passage{passage(long)}, 25, 3200)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated context is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 25 {
		t.Errorf("expected 25 runes after truncation, got %d", n)
	}
}

func TestAssembleContextStopsAtBudget(t *testing.T) {
	passages := []retriever.Passage{
		passage(strings.Repeat("a", 100)),
		passage(strings.Repeat("b", 100)),
		passage(strings.Repeat("c", 100)),
	}
	got := AssembleContext(passages, 800, 250)
	if strings.Contains(got, "c") {
		t.Error("third passage should have been dropped by the budget")
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("first two passages should fit: %q", got)
	}
}

func TestAssembleContextPreservesOrder(t *testing.T) {
	passages := []retriever.Passage{passage("first"), passage("second"), passage("third")}
	got := AssembleContext(passages, 800, 3200)
	if got != "first\n\nsecond\n\nthird" {
		t.Errorf("unexpected assembly: %q", got)
	}
}

func TestAssembleContextDeterministic(t *testing.T) {
	passages := []retriever.Passage{passage("alpha"), passage("beta")}
	first := AssembleContext(passages, 800, 3200)
	for i := 0; i < 5; i++ {
		if got := AssembleContext(passages, 800, 3200); got != first {
			t.Fatal("assembly is not deterministic")
		}
	}
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("What is the premium?", "The annual premium is 100000 yen.")
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message should be the system prompt")
	}
	if !strings.Contains(msgs[1].Content, "What is the premium?") {
		t.Error("question missing from user message")
	}
	if !strings.Contains(msgs[1].Content, "100000 yen") {
		t.Error("context missing from user message")
	}
}
