package matching

import "sort"

// SkillSet is a de-duplicated set of normalized skill phrases that remembers
// the order in which phrases were first added.
type SkillSet struct {
	items []string
	index map[string]struct{}
}

// NewSkillSet builds a set from already normalized phrases.
func NewSkillSet(phrases ...string) SkillSet {
	s := SkillSet{}
	for _, p := range phrases {
		s.add(p)
	}
	return s
}

func (s *SkillSet) add(p string) {
	if p == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[p]; ok {
		return
	}
	s.index[p] = struct{}{}
	s.items = append(s.items, p)
}

func (s SkillSet) Len() int { return len(s.items) }

func (s SkillSet) Contains(p string) bool {
	_, ok := s.index[p]
	return ok
}

// Items returns the phrases in first-occurrence order.
func (s SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the phrases in lexical order.
func (s SkillSet) Sorted() []string {
	out := s.Items()
	sort.Strings(out)
	return out
}

// Extractor finds vocabulary phrases in free text.
type Extractor struct {
	vocab *Vocabulary
}

func NewExtractor(vocab *Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Extract returns every vocabulary phrase that occurs in text as a
// contiguous run of tokens. Repeated occurrences collapse into one entry.
func (e *Extractor) Extract(text string) SkillSet {
	var out SkillSet
	if e == nil || e.vocab == nil {
		return out
	}

	tokens := Tokenize(text)
	for i, tok := range tokens {
		for _, idx := range e.vocab.candidates(tok) {
			p := e.vocab.phrases[idx]
			if matchAt(tokens, i, p.tokens) {
				out.add(p.name)
			}
		}
	}
	return out
}

func matchAt(tokens []string, start int, want []string) bool {
	if start+len(want) > len(tokens) {
		return false
	}
	for j, w := range want {
		if tokens[start+j] != w {
			return false
		}
	}
	return true
}
