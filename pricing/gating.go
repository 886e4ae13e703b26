package pricing

// State is the position of a customization wizard.
type State int

const (
	NoSizeSelected State = iota
	ComponentsIncomplete
	ComponentsSufficient
)

var stateNames = [...]string{
	NoSizeSelected:       "no_size_selected",
	ComponentsIncomplete: "components_incomplete",
	ComponentsSufficient: "components_sufficient",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Progress is what a wizard has collected so far.
type Progress struct {
	HasSize   bool
	NeedsBase bool
	HasBase   bool
	Selected  map[Category]int
}

// Evaluate resolves the wizard state. Without a size nothing else matters;
// with one, every rule minimum (and the base, when required) must be met.
func Evaluate(rules []Rule, p Progress) State {
	if !p.HasSize {
		return NoSizeSelected
	}
	if p.NeedsBase && !p.HasBase {
		return ComponentsIncomplete
	}
	for _, rule := range rules {
		if p.Selected[rule.Category] < rule.Minimum {
			return ComponentsIncomplete
		}
	}
	return ComponentsSufficient
}

func CanSubmit(rules []Rule, p Progress) bool {
	return Evaluate(rules, p) == ComponentsSufficient
}
