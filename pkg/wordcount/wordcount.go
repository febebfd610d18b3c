// Package wordcount counts lower-cased whitespace separated tokens, either in
// one pass over a text or as a line oriented map/reduce pair.
package wordcount

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const DefTop = 10

var errMalformedLine = errors.New("malformed mapper line")

// Pair is encoded as a two element JSON array: ["word", count].
type Pair struct {
	Word  string
	Count uint64
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Word, p.Count})
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("pair must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Word); err != nil {
		return err
	}

	return json.Unmarshal(raw[1], &p.Count)
}

type Result struct {
	Unique int    `json:"unique"`
	Top    []Pair `json:"top"`
}

// Count tallies the words of text and returns the n most frequent ones,
// ties broken alphabetically.
func Count(text string, n int) Result {
	counts := make(map[string]uint64)
	for _, tok := range strings.Fields(text) {
		counts[strings.ToLower(tok)]++
	}

	return Result{
		Unique: len(counts),
		Top:    top(counts, n),
	}
}

func top(counts map[string]uint64, n int) []Pair {
	pairs := make([]Pair, 0, len(counts))
	for w, c := range counts {
		pairs = append(pairs, Pair{Word: w, Count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}

		return pairs[i].Word < pairs[j].Word
	})
	if n >= 0 && len(pairs) > n {
		pairs = pairs[:n]
	}

	return pairs
}

// Map emits "word\t1" for every token of every input line.
func Map(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		for _, tok := range strings.Fields(sc.Text()) {
			if _, err := fmt.Fprintf(bw, "%s\t1\n", strings.ToLower(tok)); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	return bw.Flush()
}

// Reduce sums "word\tcount" lines and writes the totals sorted by word.
// Every line, blank ones included, must carry a tab.
func Reduce(r io.Reader, w io.Writer) error {
	counts := make(map[string]uint64)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		key, val, ok := strings.Cut(text, "\t")
		if !ok {
			return fmt.Errorf("%w %d: %q", errMalformedLine, line, text)
		}
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("%w %d: %w", errMalformedLine, line, err)
		}
		counts[key] += n
	}
	if err := sc.Err(); err != nil {
		return err
	}

	words := make([]string, 0, len(counts))
	for k := range counts {
		words = append(words, k)
	}
	sort.Strings(words)

	bw := bufio.NewWriter(w)
	for _, k := range words {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", k, counts[k]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
