package unveil

import (
	"strings"
	"testing"
	"time"
)

func TestTokenizeNestedMarkup(t *testing.T) {
	got := Tokenize("<h1>Hello <b>world</b> today</h1>", 80*time.Millisecond)
	want := `<h1><span class="hero-word" style="transition-delay:0ms">Hello</span> ` +
		`<b><span class="hero-word" style="transition-delay:80ms">world</span></b> ` +
		`<span class="hero-word" style="transition-delay:160ms">today</span></h1>`
	if got != want {
		t.Errorf("Tokenize =\n%s\nwant\n%s", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("")
	if res.Markup != "" {
		t.Errorf("Markup = %q, want empty", res.Markup)
	}
	if len(res.Units) != 0 {
		t.Errorf("len(Units) = %d, want 0", len(res.Units))
	}
	if res.Unterminated {
		t.Error("Unterminated = true, want false")
	}
}

func TestTokenizePlainText(t *testing.T) {
	res := NewTokenizer(50 * time.Millisecond).Tokenize("one two")
	want := `<span class="hero-word" style="transition-delay:0ms">one</span> ` +
		`<span class="hero-word" style="transition-delay:50ms">two</span>`
	if res.Markup != want {
		t.Errorf("Markup = %q, want %q", res.Markup, want)
	}
	if len(res.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(res.Units))
	}
	if res.Units[1].Delay != 50*time.Millisecond {
		t.Errorf("Units[1].Delay = %v, want 50ms", res.Units[1].Delay)
	}
}

func TestTokenizeTagsOnly(t *testing.T) {
	in := "<br><hr/>"
	res := NewTokenizer(80 * time.Millisecond).Tokenize(in)
	if res.Markup != in {
		t.Errorf("Markup = %q, want %q", res.Markup, in)
	}
	if len(res.Units) != 0 {
		t.Errorf("len(Units) = %d, want 0", len(res.Units))
	}
}

func TestTokenizeUnterminatedTag(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("Hi <b class")
	if !res.Unterminated {
		t.Error("Unterminated = false, want true")
	}
	if len(res.Units) != 1 || res.Units[0].Text != "Hi" {
		t.Fatalf("Units = %+v, want one unit \"Hi\"", res.Units)
	}
	want := `<span class="hero-word" style="transition-delay:0ms">Hi</span> <b class`
	if res.Markup != want {
		t.Errorf("Markup = %q, want %q", res.Markup, want)
	}
}

func TestTokenizeStrayCloseBracket(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("a > b")
	if len(res.Units) != 3 {
		t.Fatalf("len(Units) = %d, want 3", len(res.Units))
	}
	for i, want := range []string{"a", ">", "b"} {
		if res.Units[i].Text != want {
			t.Errorf("Units[%d].Text = %q, want %q", i, res.Units[i].Text, want)
		}
	}
	if !strings.Contains(res.Markup, `ms">></span>`) {
		t.Errorf("Markup = %q, want '>' wrapped as a word", res.Markup)
	}
}

func TestTokenizeOffsets(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("<i>x</i> yz")
	if len(res.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(res.Units))
	}
	if res.Units[0].Offset != 3 {
		t.Errorf("Units[0].Offset = %d, want 3", res.Units[0].Offset)
	}
	if res.Units[1].Offset != 9 {
		t.Errorf("Units[1].Offset = %d, want 9", res.Units[1].Offset)
	}
	if res.Units[1].Index != 1 {
		t.Errorf("Units[1].Index = %d, want 1", res.Units[1].Index)
	}
}

func TestTokenizePreservesWhitespace(t *testing.T) {
	res := NewTokenizer(0).Tokenize("  a\n\tb  ")
	want := `  <span class="hero-word" style="transition-delay:0ms">a</span>` + "\n\t" +
		`<span class="hero-word" style="transition-delay:0ms">b</span>  `
	if res.Markup != want {
		t.Errorf("Markup = %q, want %q", res.Markup, want)
	}
}

func TestTokenizeEscapesClass(t *testing.T) {
	tok := &Tokenizer{Stride: 10 * time.Millisecond, WordClass: `a"b`}
	res := tok.Tokenize("x")
	if !strings.HasPrefix(res.Markup, `<span class="a&#34;b"`) {
		t.Errorf("Markup = %q, want escaped class attribute", res.Markup)
	}
}

func TestTokenizeNonASCII(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("<p>héllo 世界</p>")
	if len(res.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(res.Units))
	}
	if res.Units[0].Text != "héllo" || res.Units[1].Text != "世界" {
		t.Errorf("Units = %q, %q, want héllo, 世界", res.Units[0].Text, res.Units[1].Text)
	}
}

func TestTokenizeAttributesUntouched(t *testing.T) {
	in := `<a href="/x y" title="two words">go</a>`
	res := NewTokenizer(80 * time.Millisecond).Tokenize(in)
	if len(res.Units) != 1 {
		t.Fatalf("len(Units) = %d, want 1", len(res.Units))
	}
	if !strings.HasPrefix(res.Markup, `<a href="/x y" title="two words">`) {
		t.Errorf("Markup = %q, tag interior changed", res.Markup)
	}
}

func TestTokenizeDelaysIncrease(t *testing.T) {
	res := NewTokenizer(80 * time.Millisecond).Tokenize("a b c d e")
	for i, u := range res.Units {
		if u.Index != i {
			t.Errorf("Units[%d].Index = %d", i, u.Index)
		}
		if want := time.Duration(i) * 80 * time.Millisecond; u.Delay != want {
			t.Errorf("Units[%d].Delay = %v, want %v", i, u.Delay, want)
		}
	}
}

func TestTokenizeSeparatorClass(t *testing.T) {
	tests := []struct {
		in    string
		units int
	}{
		{"a\u00a0b", 2},
		{"a\u3000b", 2},
		{"a\ufeffb", 2},
		{"a\u0085b", 1},
		{"a\u200bb", 1},
	}
	for _, tt := range tests {
		if got := len(NewTokenizer(0).Tokenize(tt.in).Units); got != tt.units {
			t.Errorf("Tokenize(%q) units = %d, want %d", tt.in, got, tt.units)
		}
	}
}
