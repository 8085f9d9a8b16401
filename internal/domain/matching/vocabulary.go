package matching

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultSkills is the built-in skill vocabulary.
var DefaultSkills = []string{
	"react", "javascript", "node.js", "express", "mongodb", "python", "java",
	"c++", "sql", "html", "css", "aws", "docker", "git", "typescript",
	"redux", "graphql", "rest", "api", "agile", "scrum", "machine learning",
	"data analysis", "project management",
}

var ErrEmptyVocabulary = errors.New("empty skill vocabulary")

type phrase struct {
	name   string
	tokens []string
}

// Vocabulary is an immutable, ordered set of skill phrases with a
// first-token index. It is safe for concurrent use once constructed.
type Vocabulary struct {
	phrases     []phrase
	byName      map[string]int
	byFirstTok  map[string][]int
	fingerprint string
}

// NewVocabulary normalizes the given phrases with the same tokenizer used
// for free text, drops blanks and keeps the first occurrence of duplicates.
func NewVocabulary(phrases []string) (*Vocabulary, error) {
	v := &Vocabulary{
		phrases:    make([]phrase, 0, len(phrases)),
		byName:     make(map[string]int, len(phrases)),
		byFirstTok: make(map[string][]int, len(phrases)),
	}

	h := sha256.New()
	for _, raw := range phrases {
		toks := Tokenize(raw)
		if len(toks) == 0 {
			continue
		}
		name := strings.Join(toks, " ")
		if _, ok := v.byName[name]; ok {
			continue
		}

		idx := len(v.phrases)
		v.phrases = append(v.phrases, phrase{name: name, tokens: toks})
		v.byName[name] = idx
		v.byFirstTok[toks[0]] = append(v.byFirstTok[toks[0]], idx)

		_, _ = io.WriteString(h, name)
		_, _ = h.Write([]byte{'\n'})
	}

	if len(v.phrases) == 0 {
		return nil, ErrEmptyVocabulary
	}
	v.fingerprint = hex.EncodeToString(h.Sum(nil))
	return v, nil
}

// MustVocabulary is NewVocabulary for static phrase lists.
func MustVocabulary(phrases []string) *Vocabulary {
	v, err := NewVocabulary(phrases)
	if err != nil {
		panic(err)
	}
	return v
}

// LoadVocabularyFile reads one phrase per line. Blank lines and lines
// starting with # are ignored.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary %s: %w", path, err)
	}
	defer f.Close()

	phrases, err := readPhrases(f)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return NewVocabulary(phrases)
}

func readPhrases(r io.Reader) ([]string, error) {
	out := make([]string, 0, 64)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.phrases)
}

// Phrases returns the normalized phrases in vocabulary order.
func (v *Vocabulary) Phrases() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.phrases))
	for _, p := range v.phrases {
		out = append(out, p.name)
	}
	return out
}

// Contains reports whether phrase, after normalization, is in the vocabulary.
func (v *Vocabulary) Contains(p string) bool {
	if v == nil {
		return false
	}
	_, ok := v.byName[NormalizePhrase(p)]
	return ok
}

// Fingerprint is a sha256 over the normalized phrases, in order.
func (v *Vocabulary) Fingerprint() string {
	if v == nil {
		return ""
	}
	return v.fingerprint
}

// candidates returns the indices of phrases starting with tok.
func (v *Vocabulary) candidates(tok string) []int {
	return v.byFirstTok[tok]
}
