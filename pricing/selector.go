package pricing

// Selector is the ordered multiset of component names picked during one
// customization session. Duplicates are units of the same component.
type Selector struct {
	items    []string
	maxTotal int
}

// NewSelector returns an empty selector holding at most maxTotal units.
// maxTotal <= 0 means no cap.
func NewSelector(maxTotal int) *Selector {
	return &Selector{maxTotal: maxTotal}
}

// Add appends one unit of name. At the cap it does nothing and returns false.
func (s *Selector) Add(name string) bool {
	if s.Full() {
		return false
	}
	s.items = append(s.items, name)
	return true
}

// Remove drops the first occurrence of name and reports whether one existed.
func (s *Selector) Remove(name string) bool {
	for i, item := range s.items {
		if item == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Selector) Clear() {
	s.items = nil
}

// Counts maps each selected name to its number of units.
func (s *Selector) Counts() map[string]int {
	counts := make(map[string]int, len(s.items))
	for _, item := range s.items {
		counts[item]++
	}
	return counts
}

func (s *Selector) Count(name string) int {
	n := 0
	for _, item := range s.items {
		if item == name {
			n++
		}
	}
	return n
}

func (s *Selector) Len() int {
	return len(s.items)
}

func (s *Selector) Full() bool {
	return s.maxTotal > 0 && len(s.items) >= s.maxTotal
}

func (s *Selector) MaxTotal() int {
	return s.maxTotal
}

// Items returns a copy of the selection in the order it was made.
func (s *Selector) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
