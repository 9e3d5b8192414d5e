package artifacts

import (
	"slices"
)

// Artifacts holds every indicator found in one or more documents.
//
// A nil field means the category is absent. Populated fields are never empty.
type Artifacts struct {
	// URLs found with an http, https or ftp scheme.
	URLs []string `json:"urls,omitempty" yaml:"urls,omitempty"`
	// Domains found as bare host names with a known TLD.
	Domains []string `json:"domains,omitempty" yaml:"domains,omitempty"`
	// Emails found as user@domain addresses.
	Emails []string `json:"emails,omitempty" yaml:"emails,omitempty"`
	// IPAddresses holds IPv4/IPv6 addresses and CIDR ranges.
	IPAddresses []string `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	// Crypto holds wallet addresses labeled "<address> - <Currency>".
	Crypto []string `json:"crypto,omitempty" yaml:"crypto,omitempty"`
	// RegistryKeys holds Windows registry paths, one per line.
	RegistryKeys []string `json:"registry_keys,omitempty" yaml:"registry_keys,omitempty"`
	// SQL holds lines recognised as SQL statements.
	SQL []string `json:"sql,omitempty" yaml:"sql,omitempty"`
	// Regexes holds regular-expression literals that compile.
	Regexes []string `json:"regexes,omitempty" yaml:"regexes,omitempty"`
	// FilePaths holds Windows, UNC and POSIX file paths.
	FilePaths []string `json:"file_paths,omitempty" yaml:"file_paths,omitempty"`
}

// Empty returns a record with every category absent. It is the identity of
// Combine.
func Empty() *Artifacts {
	return &Artifacts{}
}

// field returns a pointer to the slice backing category c.
func (a *Artifacts) field(c Category) *[]string {
	switch c {
	case URLs:
		return &a.URLs
	case Domains:
		return &a.Domains
	case Emails:
		return &a.Emails
	case IPAddresses:
		return &a.IPAddresses
	case Crypto:
		return &a.Crypto
	case RegistryKeys:
		return &a.RegistryKeys
	case SQL:
		return &a.SQL
	case Regexes:
		return &a.Regexes
	case FilePaths:
		return &a.FilePaths
	}
	panic("artifacts: unknown category " + c.String())
}

// Get returns the entries of category c, or nil when absent.
func (a *Artifacts) Get(c Category) []string {
	if a == nil {
		return nil
	}
	return *a.field(c)
}

// Set replaces category c with a sorted, unique copy of values. An empty
// values leaves the category absent.
func (a *Artifacts) Set(c Category, values []string) {
	*a.field(c) = normalize(slices.Clone(values))
}

// Add appends values to category c as they are. Call Finalize before
// handing the record out.
func (a *Artifacts) Add(c Category, values ...string) {
	if len(values) == 0 {
		return
	}
	f := a.field(c)
	*f = append(*f, values...)
}

// Count returns the number of entries in category c.
func (a *Artifacts) Count(c Category) int {
	return len(a.Get(c))
}

// Total returns the number of entries across all categories.
func (a *Artifacts) Total() int {
	n := 0
	for _, c := range Categories() {
		n += a.Count(c)
	}
	return n
}

// IsEmpty reports whether every category is absent.
func (a *Artifacts) IsEmpty() bool {
	if a == nil {
		return true
	}
	for _, c := range Categories() {
		if len(*a.field(c)) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (a *Artifacts) Clone() *Artifacts {
	out := Empty()
	if a == nil {
		return out
	}
	for _, c := range Categories() {
		if v := *a.field(c); len(v) > 0 {
			*out.field(c) = slices.Clone(v)
		}
	}
	return out
}

// Combine returns the multiset union of a and b without modifying either.
// A nil argument is treated as Empty.
func Combine(a, b *Artifacts) *Artifacts {
	out := a.Clone()
	out.Merge(b)
	return out
}

// Merge appends every present category of other onto a. The appended
// entries are copied, so a never shares backing arrays with other.
//
// a must not be nil; use Combine to merge into a fresh record.
func (a *Artifacts) Merge(other *Artifacts) {
	if a == nil {
		panic("artifacts: Merge called on a nil record")
	}
	if other == nil {
		return
	}
	for _, c := range Categories() {
		src := *other.field(c)
		if len(src) == 0 {
			continue
		}
		dst := a.field(c)
		merged := make([]string, 0, len(*dst)+len(src))
		merged = append(merged, *dst...)
		merged = append(merged, src...)
		*dst = merged
	}
}

// Finalize sorts and deduplicates every category in place and drops empty
// ones. It returns a for chaining.
func (a *Artifacts) Finalize() *Artifacts {
	if a == nil {
		return nil
	}
	for _, c := range Categories() {
		f := a.field(c)
		*f = normalize(*f)
	}
	return a
}

// Sum combines every record and finalizes the result.
func Sum(records ...*Artifacts) *Artifacts {
	out := Empty()
	for _, r := range records {
		out.Merge(r)
	}
	return out.Finalize()
}

// normalize sorts and compacts values, returning nil when nothing remains.
func normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	slices.Sort(values)
	return slices.Clip(slices.Compact(values))
}
