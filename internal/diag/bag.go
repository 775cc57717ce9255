package diag

import (
	"cmp"
	"slices"

	"ktfront/internal/source"
)

// Bag collects the diagnostics of one file or one run.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most limit diagnostics; limit <= 0 means
// no limit.
func NewBag(limit int) *Bag {
	limit = max(limit, 0)
	return &Bag{
		items: make([]Diagnostic, 0, min(limit, 64)),
		max:   limit,
	}
}

// Add appends d unless the limit is reached. It reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) full() bool { return b.max > 0 && len(b.items) >= b.max }

// Worst returns the highest severity in the bag and false when it is empty.
func (b *Bag) Worst() (Severity, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	worst := b.items[0].Severity
	for _, d := range b.items[1:] {
		worst = max(worst, d.Severity)
	}
	return worst, true
}

func (b *Bag) HasErrors() bool {
	sev, ok := b.Worst()
	return ok && sev >= SevError
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the diagnostics. The slice aliases the bag's storage and
// must not be modified.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends the diagnostics of other. A limited bag grows to take them.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.max > 0 {
		b.max = max(b.max, len(b.items))
	}
}

// Sort orders by position, then most severe first, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

type entryKey struct {
	code Code
	span source.Span
	msg  string
}

// Dedup drops diagnostics repeating an earlier code, span and message.
func (b *Bag) Dedup() {
	seen := make(map[entryKey]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := entryKey{d.Code, d.Primary, d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}

// Filter keeps only diagnostics at least as severe as least.
func (b *Bag) Filter(least Severity) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		return d.Severity < least
	})
}
