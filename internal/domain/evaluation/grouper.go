package evaluation

import "strings"

// BatchKey identifies one outbound reminder email.
type BatchKey struct {
	LeaderEmail string `json:"leader_email"`
	Kind        Kind   `json:"evaluation_type"`
	Department  string `json:"department"`
}

// Batch holds the obligations that share a leader, kind and department, in insertion order.
type Batch struct {
	Key         BatchKey     `json:"key"`
	LeaderName  string       `json:"leader_name"`
	Obligations []Obligation `json:"obligations"`

	names map[string]struct{}
}

func newBatch(key BatchKey, leaderName string) *Batch {
	return &Batch{
		Key:        key,
		LeaderName: leaderName,
		names:      make(map[string]struct{}),
	}
}

// Add appends o unless an employee with the same name is already in the batch.
func (b *Batch) Add(o Obligation) bool {
	name := strings.TrimSpace(o.EmployeeName)
	if _, dup := b.names[name]; dup {
		return false
	}
	b.names[name] = struct{}{}
	b.Obligations = append(b.Obligations, o)
	return true
}

// Len returns the number of employees in the batch.
func (b *Batch) Len() int { return len(b.Obligations) }

// Recipients returns the leader's address followed by any valid second-leader
// addresses of the batch's employees, deduplicated.
func (b *Batch) Recipients() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if !IsValidLeaderEmail(addr) {
			return
		}
		k := NormalizeEmail(addr)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, addr)
	}
	if len(b.Obligations) > 0 {
		add(b.Obligations[0].LeaderEmail)
	}
	for _, o := range b.Obligations {
		add(o.SecondLeaderEmail)
	}
	return out
}

// KeyFor builds the grouping key of an obligation.
func KeyFor(o Obligation) BatchKey {
	return BatchKey{
		LeaderEmail: NormalizeEmail(o.LeaderEmail),
		Kind:        o.Kind,
		Department:  strings.TrimSpace(o.Department),
	}
}

// Group aggregates obligations into batches. Batches are returned in the order their
// first obligation appeared so rendered output is deterministic.
func Group(obligations []Obligation) []*Batch {
	byKey := make(map[BatchKey]*Batch)
	var ordered []*Batch
	for _, o := range obligations {
		key := KeyFor(o)
		b, ok := byKey[key]
		if !ok {
			b = newBatch(key, o.LeaderName)
			byKey[key] = b
			ordered = append(ordered, b)
		}
		b.Add(o)
	}
	return ordered
}
