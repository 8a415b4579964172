package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalid indicates a word/index mapping that is not a bijection
// onto 0..V-1.
var ErrInvalid = errors.New("vocab: invalid vocabulary")

// Vocabulary is an immutable bijection between word strings and dense
// integer indices 0..V-1.
type Vocabulary struct {
	index map[string]int
	words []string
}

// New builds a vocabulary from an ordered word list; words[i] gets index i.
func New(words []string) (*Vocabulary, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty word list", ErrInvalid)
	}
	index := make(map[string]int, len(words))
	for i, w := range words {
		if w == "" {
			return nil, fmt.Errorf("%w: empty word at index %d", ErrInvalid, i)
		}
		if prev, ok := index[w]; ok {
			return nil, fmt.Errorf("%w: word %q at both index %d and %d", ErrInvalid, w, prev, i)
		}
		index[w] = i
	}
	return &Vocabulary{index: index, words: append([]string(nil), words...)}, nil
}

// FromIndex builds a vocabulary from a word->index map, validating that the
// indices cover exactly 0..V-1 with no duplicates or gaps.
func FromIndex(index map[string]int) (*Vocabulary, error) {
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: empty index", ErrInvalid)
	}
	words := make([]string, len(index))
	for w, i := range index {
		if i < 0 || i >= len(index) {
			return nil, fmt.Errorf("%w: index %d for %q out of range [0, %d)", ErrInvalid, i, w, len(index))
		}
		if words[i] != "" {
			return nil, fmt.Errorf("%w: index %d assigned to both %q and %q", ErrInvalid, i, words[i], w)
		}
		words[i] = w
	}
	// A map cannot hold duplicate words and every slot above is filled
	// exactly once, so the mapping is bijective at this point.
	return New(words)
}

// LoadFile reads a JSON word->index map (the encoder.json shape).
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	defer f.Close()

	var index map[string]int
	if err := json.NewDecoder(f).Decode(&index); err != nil {
		return nil, fmt.Errorf("vocab: decode %s: %w", path, err)
	}
	return FromIndex(index)
}

// Size returns V, the number of words.
func (v *Vocabulary) Size() int { return len(v.words) }

// Index returns the index for a word and whether the word is known.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Word returns the word at index i.
func (v *Vocabulary) Word(i int) (string, error) {
	if i < 0 || i >= len(v.words) {
		return "", fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalid, i, len(v.words))
	}
	return v.words[i], nil
}
