package answer

import (
	"strings"
	"testing"
)

func TestGreetingShortCircuits(t *testing.T) {
	reply, ok := Greeting("Hello there!")
	if !ok {
		t.Fatal("expected greeting match")
	}
	if !strings.HasPrefix(reply, "Hello!") {
		t.Fatalf("reply = %q", reply)
	}

	reply, ok = Greeting("thanks a lot")
	if !ok || !strings.HasPrefix(reply, "You're welcome!") {
		t.Fatalf("ok = %v, reply = %q", ok, reply)
	}

	if _, ok := Greeting("where is the office located"); ok {
		t.Fatal("content question treated as greeting")
	}

	// "which" and "this" contain "hi" but must not read as greetings.
	if _, ok := Greeting("which services does this firm offer"); ok {
		t.Fatal("word-boundary matching failed")
	}
}

func TestRestrictedTopics(t *testing.T) {
	reply, ok := Restricted("please write code for sorting a list")
	if !ok {
		t.Fatal("expected restricted match")
	}
	if !strings.Contains(reply, "specialized tools") {
		t.Fatalf("reply = %q", reply)
	}

	if _, ok := Restricted("what services are offered"); ok {
		t.Fatal("on-topic question flagged as restricted")
	}
}

func TestClassifyQuestion(t *testing.T) {
	flags := ClassifyQuestion("what companies did he start", false)
	if !flags.Company {
		t.Fatal("company keyword not detected")
	}
	if flags.Timeline || flags.JobTitle || flags.Skill {
		t.Fatalf("unexpected flags %+v", flags)
	}

	flags = ClassifyQuestion("how long has he worked there", false)
	if !flags.Timeline {
		t.Fatal("timeline keywords not detected")
	}

	// Extracted companies promote the question even without company words.
	flags = ClassifyQuestion("tell me about him", true)
	if !flags.Company {
		t.Fatal("companiesDetected did not promote the question")
	}
	if !flags.Structured() {
		t.Fatal("Structured() should follow the company flag")
	}

	if ClassifyQuestion("tell me about him", false).Structured() {
		t.Fatal("plain question should not be structured")
	}
}

func TestInstructionSelection(t *testing.T) {
	got := Instruction("career history please", QuestionFlags{Timeline: true})
	if !strings.Contains(got, "timeline information") {
		t.Fatalf("timeline instruction = %q", got)
	}

	got = Instruction("which companies", QuestionFlags{Company: true})
	if !strings.Contains(got, `"Companies:"`) {
		t.Fatalf("company instruction = %q", got)
	}

	got = Instruction("how much does it cost", QuestionFlags{})
	if !strings.Contains(got, "pricing") {
		t.Fatalf("pricing instruction = %q", got)
	}

	got = Instruction("tell me something", QuestionFlags{})
	if !strings.Contains(got, "helpful, relevant information") {
		t.Fatalf("default instruction = %q", got)
	}
}

func TestCleanMarkdown(t *testing.T) {
	got := CleanMarkdown("**Acme** grew *fast* with `Go`.")
	if got != "Acme grew fast with Go." {
		t.Fatalf("got %q", got)
	}
}

func TestFormatResponseEmpty(t *testing.T) {
	got := FormatResponse("   ", "pricing", QuestionFlags{})
	if !strings.Contains(got, "don't have specific information about 'pricing'") {
		t.Fatalf("got %q", got)
	}
}

func TestFormatResponseInWindow(t *testing.T) {
	in := strings.Repeat("a", 350)
	if got := FormatResponse(in, "q", QuestionFlags{}); got != in {
		t.Fatalf("in-window answer modified, len %d", len(got))
	}
}

func TestFormatResponsePadsVeryShort(t *testing.T) {
	got := FormatResponse("Acme was founded in 2010.", "when", QuestionFlags{})
	if !strings.HasPrefix(got, "Acme was founded in 2010.") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "For more specific information") {
		t.Fatalf("short answer not padded: %q", got)
	}

	// Mid-length answers below the window pass through unchanged.
	mid := strings.Repeat("b", 150)
	if got := FormatResponse(mid, "q", QuestionFlags{}); got != mid {
		t.Fatalf("mid-length answer modified: %q", got)
	}
}

func TestFormatResponseTruncatesWithPriority(t *testing.T) {
	raw := strings.Repeat("The seaside office hosts a small reading club for staff. ", 12) +
		"Growth accelerated in 2015 across the region."
	got := FormatResponse(raw, "career timeline", QuestionFlags{Timeline: true})

	if len(got) < minAnswerLen || len(got) > maxAnswerLen {
		t.Fatalf("len = %d, want within [%d,%d]", len(got), minAnswerLen, maxAnswerLen)
	}
	// The year-bearing sentence moves to the front despite appearing last.
	if !strings.HasPrefix(got, "Growth accelerated in 2015") {
		t.Fatalf("priority sentence not first: %q", got)
	}
}
