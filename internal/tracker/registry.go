package tracker

// Registry interns description strings to small integer codes so many
// retained entries can share one stored copy of the text. Codes are
// reference counted; a description is dropped as soon as nothing uses it.
type Registry struct {
	codes        map[string]int
	descriptions map[int]string
	useCount     map[int]int
	nextCode     int
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codes:        make(map[string]int),
		descriptions: make(map[int]string),
		useCount:     make(map[int]int),
	}
}

// Intern returns the code for description, assigning a fresh one on first
// use. Each call counts as one additional reference. Codes are never
// reused, even after release.
func (r *Registry) Intern(description string) int {
	if code, ok := r.codes[description]; ok {
		r.useCount[code]++
		return code
	}

	code := r.nextCode
	r.nextCode++
	r.codes[description] = code
	r.descriptions[code] = description
	r.useCount[code] = 1
	return code
}

// Release drops one reference to code, removing the description entirely
// when the count reaches zero. Releasing an untracked code is a no-op.
func (r *Registry) Release(code int) {
	count, ok := r.useCount[code]
	if !ok {
		return
	}
	count--
	if count > 0 {
		r.useCount[code] = count
		return
	}
	delete(r.codes, r.descriptions[code])
	delete(r.descriptions, code)
	delete(r.useCount, code)
}

// Lookup returns the description for code, if it is still referenced.
func (r *Registry) Lookup(code int) (string, bool) {
	description, ok := r.descriptions[code]
	return description, ok
}

// Len returns the number of distinct descriptions currently retained.
func (r *Registry) Len() int {
	return len(r.descriptions)
}

// TotalRefs returns the sum of all reference counts.
func (r *Registry) TotalRefs() int {
	total := 0
	for _, count := range r.useCount {
		total += count
	}
	return total
}
