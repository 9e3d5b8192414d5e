package validate

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// idnaProfile converts hosts to ASCII the way a resolver would, but allows
// underscores, other non-STD3 characters and hyphens anywhere in a label so
// the grammar below decides. Email local parts go through it too.
var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.CheckHyphens(false),
	idna.BidiRule(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

var domainRE = regexp.MustCompile(
	`(?i)^(?:[a-zA-Z0-9]` + // first character of the label
		`(?:[a-zA-Z0-9_-]{0,61}[A-Za-z0-9])?\.)` + // subdomain and host labels
		`+[A-Za-z0-9][A-Za-z0-9_-]{0,61}` + // final label
		`[A-Za-z]$`, // final label ends in a letter
)

var (
	emailRE       = regexp.MustCompile(`^[A-Za-z0-9\.\+_-]+@[A-Za-z0-9\._-]+\.[a-zA-Z0-9\-]*$`)
	emailDomainRE = regexp.MustCompile(
		`(?i)(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+` +
			`(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?$)` +
			// address literal, SMTP 4.1.3
			`|^\[(25[0-5]|2[0-4]\d|[0-1]?\d?\d)` +
			`(\.(25[0-5]|2[0-4]\d|[0-1]?\d?\d)){3}\]$`,
	)
)

const (
	ipMiddleOctet = `(?:\.(?:1?\d{1,2}|2[0-4]\d|25[0-5]))`
	ipLastOctet   = `(?:\.(?:[1-9]\d?|1\d\d|2[0-4]\d|25[0-4]))`
	uni           = `\x{00a1}-\x{ffff}`
)

var urlRE = regexp.MustCompile(strings.Join([]string{
	`(?i)^`,
	// scheme
	`(?:(?:https?|ftp)://)`,
	// userinfo
	`(?:[-a-z` + uni + `0-9._~%!$&'()*+,;=:]+`,
	`(?::[-a-z0-9._~%!$&'()*+,;=:]*)?@)?`,
	`(?:`,
	// private and local networks
	`(?P<private_ip>`,
	`(?:(?:10|127)` + ipMiddleOctet + `{2}` + ipLastOctet + `)|`,
	`(?:(?:169\.254|192\.168)` + ipMiddleOctet + ipLastOctet + `)|`,
	`(?:172\.(?:1[6-9]|2\d|3[0-1])` + ipMiddleOctet + ipLastOctet + `))`,
	`|`,
	`(?P<private_host>(?:localhost))`,
	`|`,
	// public dotted quad, no network, broadcast or reserved space
	`(?P<public_ip>`,
	`(?:[1-9]\d?|1\d\d|2[01]\d|22[0-3])`,
	ipMiddleOctet + `{2}`,
	ipLastOctet + `)`,
	`|`,
	// bracketed IPv6
	`\[(`,
	`([0-9a-fA-F]{1,4}:){7,7}[0-9a-fA-F]{1,4}|`,
	`([0-9a-fA-F]{1,4}:){1,7}:|`,
	`([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|`,
	`([0-9a-fA-F]{1,4}:){1,5}(:[0-9a-fA-F]{1,4}){1,2}|`,
	`([0-9a-fA-F]{1,4}:){1,4}(:[0-9a-fA-F]{1,4}){1,3}|`,
	`([0-9a-fA-F]{1,4}:){1,3}(:[0-9a-fA-F]{1,4}){1,4}|`,
	`([0-9a-fA-F]{1,4}:){1,2}(:[0-9a-fA-F]{1,4}){1,5}|`,
	`[0-9a-fA-F]{1,4}:((:[0-9a-fA-F]{1,4}){1,6})|`,
	`:((:[0-9a-fA-F]{1,4}){1,7}|:)|`,
	`fe80:(:[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]{1,}|`,
	`::(ffff(:0{1,4}){0,1}:){0,1}`,
	`((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3,3}`,
	`(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])|`,
	`([0-9a-fA-F]{1,4}:){1,4}:`,
	`((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3,3}`,
	`(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])`,
	`)\]|`,
	// host name
	`(?:(?:[a-z` + uni + `0-9]-?)*[a-z` + uni + `0-9]+)`,
	// domain name
	`(?:\.(?:[a-z` + uni + `0-9]-?)*[a-z` + uni + `0-9]+)*`,
	// TLD
	`(?:\.(?:[a-z` + uni + `]{2,}))`,
	`)`,
	// port
	`(?::\d{2,5})?`,
	// path
	`(?:/[-a-z` + uni + `0-9._~%!$&'()*+,;=:@/]*)?`,
	// query
	`(?:\?\S*)?`,
	// fragment
	`(?:#\S*)?`,
	`$`,
}, ""))

// IsDomain reports whether value is a host name whose final label is a
// known TLD. Internationalized names are converted to punycode first.
func (v *Validators) IsDomain(value string) bool {
	if value == "" {
		return false
	}
	ascii, err := idnaProfile.ToASCII(value)
	if err != nil || !domainRE.MatchString(ascii) {
		return false
	}
	return v.tlds.Contains(ascii[strings.LastIndexByte(ascii, '.')+1:])
}

// IsURL reports whether value is an http, https or ftp URL with a host.
func (v *Validators) IsURL(value string) bool {
	return value != "" && urlRE.MatchString(value)
}

// IsEmail reports whether value is an email address.
func (v *Validators) IsEmail(value string) bool {
	at := strings.LastIndexByte(value, '@')
	if at <= 0 || at == len(value)-1 {
		return false
	}
	user, domain := value[:at], value[at+1:]

	if !tldIsAlphabetic(domain) {
		return false
	}
	user, err := idnaProfile.ToASCII(user)
	if err != nil || len(user) > 64 {
		return false
	}
	domain, err = idnaProfile.ToASCII(domain)
	if err != nil {
		return false
	}

	if emailRE.MatchString(user+"@"+domain) && emailDomainRE.MatchString(domain) {
		return true
	}
	_, ok := v.whitelist[strings.ToLower(domain)]
	return ok
}

// tldIsAlphabetic reports whether everything after the first dot of domain
// is letters, marks or dots. A domain without a dot passes.
func tldIsAlphabetic(domain string) bool {
	_, rest, found := strings.Cut(domain, ".")
	if !found {
		return true
	}
	for _, r := range rest {
		if r != '.' && !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}
