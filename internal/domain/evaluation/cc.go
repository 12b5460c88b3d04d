package evaluation

import (
	"strings"
	"unicode"
)

// CCRouter maps departments to the addresses copied on reminder emails.
type CCRouter struct {
	hrAddress   string
	departments map[string][]string
	extra       []string
}

// NewCCRouter builds a router. Department codes are matched case-insensitively.
// extraCC is a comma-separated list supplied by the caller; blank entries are dropped.
func NewCCRouter(hrAddress string, departments map[string][]string, extraCC string) *CCRouter {
	table := make(map[string][]string, len(departments))
	for code, addrs := range departments {
		table[strings.ToUpper(strings.TrimSpace(code))] = addrs
	}
	return &CCRouter{
		hrAddress:   strings.TrimSpace(hrAddress),
		departments: table,
		extra:       SplitAddresses(extraCC),
	}
}

// SplitAddresses splits a comma-separated address list, trimming and dropping blanks.
func SplitAddresses(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lookup matches the whole upper-cased department first, then its leading code
// ("CC - Manila" matches "CC").
func (r *CCRouter) lookup(department string) []string {
	dept := strings.ToUpper(strings.TrimSpace(department))
	if dept == "" {
		return nil
	}
	if addrs, ok := r.departments[dept]; ok {
		return addrs
	}
	code := strings.FieldsFunc(dept, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	if len(code) > 0 {
		return r.departments[code[0]]
	}
	return nil
}

// CCFor returns the HR address, the addresses of every department given, and the
// extra addresses, in that order without duplicates.
func (r *CCRouter) CCFor(departments ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		k := strings.ToLower(addr)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, addr)
	}

	add(r.hrAddress)
	for _, d := range departments {
		for _, addr := range r.lookup(d) {
			add(addr)
		}
	}
	for _, addr := range r.extra {
		add(addr)
	}
	return out
}

// CCForBatch returns the CC list for all departments represented in b.
func (r *CCRouter) CCForBatch(b *Batch) []string {
	depts := []string{b.Key.Department}
	for _, o := range b.Obligations {
		depts = append(depts, o.Department)
	}
	return r.CCFor(depts...)
}
