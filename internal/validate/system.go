package validate

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// Compiled case-insensitive and multiline.
var registryPattern = strings.Join([]string{
	`((^[^\n]*?)`,
	`((^\\?|\\)(HK(EY|LM|CU|U|CC|CR))(\\|_[^\n]+?\\)|^(BCD[-\n]+|`,
	`COMPONENTS|DRIVERS|ELAM|HARDWARE|SAM|Schema|SECURITY|SOFTWARE|SYSTEM|AppEvents|Console|Control Panel|Environment|EUDC|Keyboard Layout|Network|Printers|Uninstall|Volatile Environment)`,
	`\\|(^\\?|\\)S\-\d+[^\n]*?\\|`,
	`\[(Install Path|Music Path|Pictures Path|Videos Path|Artist|App Data Path|Name)\]|`,
	`"AppliesTo"|"AssociateFiles"|`,
	`\[App Data Path\]|`,
	`"Common"|"CommonEmojiTerminators"|"Complete"|"`,
	`(Configuration|DefaultFeature|Description|DiskPrompt|DocumentationShortcuts|EnvironmentPathNode|EnvironmentPathNpmModules|Extensions|External Program Arguments|File Location.*?|MainApplication|MainFeature|NodeRuntime|Path|Servicing_Key|Shortcuts)"`,
	`)`,
	`([^\n#]*?)\\?\S+)($|[^\\]+$)`,
}, "")

// Compiled case-insensitive, multiline, ignoring pattern whitespace.
var sqlPattern = strings.Join([]string{
	`(`,
	`^[^\S\n]*`,
	`(`,
	`INSERT\b((?!^[^\S\n]*$)[\s\S])+?\bVALUES\b.*`,
	`|FROM\b((?!^[^\S\n]*$)[\s\S])+?\bWHERE\b.*`,
	`|(SELECT|PATINDEX)\b((?!^[^\S\n]*$)[\s\S])+?\b(WHERE|FROM|AS)\b.*`,
	`|BEGIN\b((?!^[^\S\n]*$)[\s\S])+?\bEND\b.*`,
	`|(SELECT|UPDATE|DELETE|INSERT[ ]INTO|CREATE[ ]DATABASE|ALTER[ ]DATABASE|CREATE[ ]TABLE|ALTER[ ]TABLE|DROP[ ]TABLE|CREATE[ ]INDEX|DROP[ ]INDEX|DECLARE|SET|TRUNCATE|ADD|WHERE)\b`,
	`.*`,
	`)`,
	`(\(?((?!^[^\S\n]*$)[\s\S])+?\)[^)\n]*)?`,
	`(\n|$)`,
	`)+`,
}, "")

// regexShaped marks lines that are regular expressions about registry keys
// rather than keys.
var regexShaped = regexp.MustCompile(`^\^|[^\\]\$$|\{\d+(?:,\d*)?\}|\.[*+]|\(\?`)

// IsRegistryKey reports whether value is a Windows registry key or an
// installer property line.
func (v *Validators) IsRegistryKey(value string) bool {
	if value == "" || regexShaped.MatchString(value) {
		return false
	}
	return v.match(v.registry, value)
}

// IsSQL reports whether value is a SQL statement.
func (v *Validators) IsSQL(value string) bool {
	if value == "" {
		return false
	}
	return v.match(v.sql, value)
}

var (
	// Each is enough on its own.
	regexStructural = []*regexp.Regexp{
		regexp.MustCompile(`\[\[:[a-z]+:\]\]`),        // POSIX class
		regexp.MustCompile(`\(\?<?[=!]`),              // lookaround
		regexp.MustCompile(`[^\\\s]\{\d+(?:,\d*)?\}`), // bounded repetition
		regexp.MustCompile(`\([^()|]+\|[^()]+\)`),     // alternation group
		regexp.MustCompile(`\][*+?]`),                 // quantified class
	}

	// Only count alongside an operator; paths and registry keys have these.
	regexEscape = regexp.MustCompile(`\\[dDwWsSbB]`)
)

const regexOperators = "[](){}*+?|"

// IsRegex reports whether value is a regular expression literal: it carries
// characteristic metasyntax and compiles.
func (v *Validators) IsRegex(value string) bool {
	if len(value) < 2 || strings.Contains(value, "://") {
		return false
	}
	if !looksLikeRegex(value) {
		return false
	}
	re, err := regexp2.Compile(value, regexp2.None)
	return err == nil && re != nil
}

func looksLikeRegex(value string) bool {
	for _, re := range regexStructural {
		if re.MatchString(value) {
			return true
		}
	}
	anchored := strings.HasPrefix(value, "^") || hasUnescapedDollarSuffix(value)
	if !anchored && !regexEscape.MatchString(value) {
		return false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(value, "^"), "$")
	return strings.ContainsAny(body, regexOperators)
}

func hasUnescapedDollarSuffix(value string) bool {
	if !strings.HasSuffix(value, "$") || len(value) < 2 {
		return false
	}
	return value[len(value)-2] != '\\'
}

const winIllegal = `\\/:*?"<>|\r\n`

var filePathPatterns = []*regexp.Regexp{
	// C:\dir\file, C:/dir/file
	regexp.MustCompile(`^[A-Za-z]:[\\/](?:[^` + winIllegal + `]+[\\/]?)*$`),
	// \\server\share\dir
	regexp.MustCompile(`^\\\\[^` + winIllegal + `\s]+(?:\\[^` + winIllegal + `]+)+\\?$`),
	// /abs, ~/home, ./rel, ../up
	regexp.MustCompile(`^(?:~|\.\.?)?/[^\s/]+(?:/[^\s/]+)*/?$`),
	// dir/file.ext
	regexp.MustCompile(`^[\w.-]+(?:/[\w.-]+)*/[\w-][\w.-]*\.[A-Za-z][A-Za-z0-9]{0,7}$`),
}

// IsFilePath reports whether value is a Windows, UNC or POSIX file path.
func (v *Validators) IsFilePath(value string) bool {
	if value == "" || strings.Contains(value, "://") {
		return false
	}
	for _, re := range filePathPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
