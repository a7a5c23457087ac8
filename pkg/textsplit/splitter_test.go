package textsplit

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(1000, 200)

	chunks := s.Split("a short paragraph")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short paragraph" {
		t.Errorf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(1000, 200)

	cases := []string{"", "   ", "\n\n\n"}
	for _, in := range cases {
		if chunks := s.Split(in); len(chunks) != 0 {
			t.Errorf("Split(%q): expected no chunks, got %d", in, len(chunks))
		}
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("some words that repeat over and over. ")
	}

	chunks := s.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 100 {
			t.Errorf("chunk %d has %d runes, limit 100", i, n)
		}
	}
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	s := NewSplitter(40, 0)

	text := "first paragraph stays whole.\n\nsecond paragraph stays whole."
	chunks := s.Split(text)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "first paragraph stays whole." {
		t.Errorf("chunk 0: %q", chunks[0])
	}
	if chunks[1] != "second paragraph stays whole." {
		t.Errorf("chunk 1: %q", chunks[1])
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(40, 15)

	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		tail := prevWords[len(prevWords)-1]
		if !strings.Contains(chunks[i], tail) {
			t.Errorf("chunk %d does not carry %q from its predecessor: %q", i, tail, chunks[i])
		}
	}
}

func TestSplitHardCutsUnbrokenText(t *testing.T) {
	s := NewSplitter(50, 10)

	text := strings.Repeat("x", 200)
	chunks := s.Split(text)

	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d has %d chars, limit 50", i, len(c))
		}
	}
}

func TestSplitHandlesMultibyteRunes(t *testing.T) {
	s := NewSplitter(30, 5)

	text := strings.Repeat("日本語のテキスト ", 20)
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 30 {
			t.Errorf("chunk %d has %d runes, limit 30", i, n)
		}
	}
}

func TestSplitDropsNoSourceText(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
		text      string
	}{
		{
			name:      "mixed separators",
			chunkSize: 50,
			overlap:   10,
			text: "alpha bravo charlie delta echo foxtrot golf.\n" +
				"hotel india juliett kilo lima mike november.\n\n" +
				"oscar papa quebec romeo sierra tango uniform victor whiskey.",
		},
		{
			name:      "many small paragraphs",
			chunkSize: 30,
			overlap:   5,
			text:      "one two\n\nthree four\n\nfive six\n\nseven eight nine ten eleven twelve",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSplitter(tc.chunkSize, tc.overlap)
			chunks := s.Split(tc.text)
			if len(chunks) == 0 {
				t.Fatal("expected chunks")
			}

			// Every word fits inside a chunk, so no word may be lost or cut.
			joined := strings.Join(chunks, "\n")
			for _, word := range strings.Fields(tc.text) {
				if !strings.Contains(joined, word) {
					t.Errorf("word %q missing from chunks %q", word, chunks)
				}
			}
		})
	}
}

func TestSplitHardCutPartitionsUnbrokenRun(t *testing.T) {
	s := NewSplitter(100, 0)

	// A separator-free run longer than several windows. Distinct letters so
	// a dropped window would be visible in the reconstruction.
	var b strings.Builder
	for i := 0; i < 370; i++ {
		b.WriteRune(rune('a' + i%26))
	}
	text := b.String()

	chunks := s.Split(text)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	// With no separators and no overlap the chunks are an exact partition.
	if got := strings.Join(chunks, ""); got != text {
		t.Errorf("reconstruction differs from source:\n got %q\nwant %q", got, text)
	}
}
