package vendorrule

// registry is the static, ordered rule table. Order matters only for
// display; lookup is by name.
var registry = []Rule{
	quantityRule{},
	casePackRule{},
	shippedStatusRule{},
	ColumnRule{},
}

// All returns the registered rules in display order.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the rule with the given name. Unknown names fall back to
// the operator-selected-column rule bound to defaultColumn.
func Lookup(name, defaultColumn string) Rule {
	for _, r := range registry {
		if r.Name() == name {
			if cr, ok := r.(ColumnRule); ok {
				cr.Column = defaultColumn
				return safeRule{cr}
			}
			return safeRule{r}
		}
	}
	return safeRule{ColumnRule{Column: defaultColumn}}
}

// safeRule enforces the total contract at the boundary: a rule that panics
// on a malformed row yields 0 instead of taking the whole pass down.
type safeRule struct {
	inner Rule
}

func (s safeRule) Name() string        { return s.inner.Name() }
func (s safeRule) DisplayName() string { return s.inner.DisplayName() }

func (s safeRule) CalculateStock(row map[string]string) (delta int) {
	defer func() {
		if recover() != nil {
			delta = 0
		}
	}()
	delta = s.inner.CalculateStock(row)
	if delta < 0 {
		delta = 0
	}
	return delta
}
