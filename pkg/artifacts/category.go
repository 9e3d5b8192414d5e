package artifacts

import "fmt"

// Category identifies one indicator field of Artifacts.
type Category int

const (
	URLs Category = iota
	Domains
	Emails
	IPAddresses
	Crypto
	RegistryKeys
	SQL
	Regexes
	FilePaths

	numCategories
)

// categoryNames are the serialized field names, in declaration order.
var categoryNames = [numCategories]string{
	URLs:         "urls",
	Domains:      "domains",
	Emails:       "emails",
	IPAddresses:  "ip_address",
	Crypto:       "crypto",
	RegistryKeys: "registry_keys",
	SQL:          "sql",
	Regexes:      "regexes",
	FilePaths:    "file_paths",
}

// Categories returns every category in field order.
func Categories() []Category {
	all := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		all = append(all, c)
	}
	return all
}

// String returns the serialized field name.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a field name such as "ip_address" back to its Category.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}
