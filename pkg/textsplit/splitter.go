package textsplit

import "strings"

// DefaultSeparators, tried in order: paragraph break, line break, word
// break, then a hard character cut when nothing else fits.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into overlapping windows of at most ChunkSize runes.
// It prefers breaking at the coarsest separator that still yields pieces
// under the size limit, recursing to finer separators only for oversized
// pieces.
type Splitter struct {
	ChunkSize  int
	Overlap    int
	Separators []string
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{
		ChunkSize:  chunkSize,
		Overlap:    overlap,
		Separators: DefaultSeparators,
	}
}

// Split returns the chunks of text. Whitespace-only results are dropped;
// an empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.Separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var chunks []string
	var good []string
	for _, piece := range splits {
		if runeLen(piece) <= s.ChunkSize {
			good = append(good, piece)
			continue
		}
		// Flush what fits, then recurse into the oversized piece with the
		// finer separators.
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good, separator)...)
			good = nil
		}
		if len(next) == 0 {
			chunks = append(chunks, hardCut(piece, s.ChunkSize, s.Overlap)...)
		} else {
			chunks = append(chunks, s.splitText(piece, next)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good, separator)...)
	}
	return chunks
}

// merge greedily joins adjacent pieces up to ChunkSize, carrying the last
// Overlap runes worth of pieces into the next window.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepLen := runeLen(separator)

	var chunks []string
	var window []string
	total := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(window, separator))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, piece := range pieces {
		pieceLen := runeLen(piece)
		if total+pieceLen+sepLen*min(len(window), 1) > s.ChunkSize && len(window) > 0 {
			flush()
			// Drop pieces from the front until the carried tail fits the
			// overlap budget.
			for total > s.Overlap || (total+pieceLen+sepLen > s.ChunkSize && total > 0) {
				total -= runeLen(window[0]) + sepLen*min(len(window)-1, 1)
				window = window[1:]
				if len(window) == 0 {
					total = 0
					break
				}
			}
		}
		window = append(window, piece)
		total += pieceLen
		if len(window) > 1 {
			total += sepLen
		}
	}
	flush()
	return chunks
}

// hardCut slices by rune offsets when no separator can help.
func hardCut(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[i:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// splitOn splits by sep, keeping empty pieces out. An empty separator
// explodes nothing; the caller hard-cuts instead.
func splitOn(text, sep string) []string {
	if sep == "" {
		return []string{text}
	}
	parts := strings.Split(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
