// Package scheme models OS power schemes and parses the inventory printed by
// `powercfg /L`.
package scheme

import (
	"regexp"
	"strings"
)

// PowerScheme is one power plan as enumerated by the OS. Active is derived
// from the listing and only meaningful for the listing it came from.
type PowerScheme struct {
	GUID   string `json:"guid"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Inventory is the result of one enumeration, in listing order.
type Inventory struct {
	Schemes    []PowerScheme `json:"schemes"`
	ActiveName string        `json:"activeName"`
	ActiveGUID string        `json:"activeGuid"`
}

// Active returns the scheme flagged active, or nil. When several lines carry
// the marker the last one wins, matching ActiveName.
func (inv *Inventory) Active() *PowerScheme {
	for i := len(inv.Schemes) - 1; i >= 0; i-- {
		if inv.Schemes[i].Active {
			return &inv.Schemes[i]
		}
	}
	return nil
}

// Find returns the scheme with the given GUID (any case), or nil.
func (inv *Inventory) Find(guid string) *PowerScheme {
	guid = Canonical(guid)
	for i := range inv.Schemes {
		if inv.Schemes[i].GUID == guid {
			return &inv.Schemes[i]
		}
	}
	return nil
}

const (
	activeMarker = "*"
	guidPattern  = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
)

// lineTemplates are tried in order; the first one that matches a line wins.
// The second group is everything after the opening '(' of the name; see
// splitName.
var lineTemplates = []*regexp.Regexp{
	regexp.MustCompile(`电源方案\s*(?:GUID)?\s*[:：]\s*(` + guidPattern + `)\s*\((.*)$`),
	regexp.MustCompile(`Power Scheme\s*(?:GUID)?\s*:\s*(` + guidPattern + `)\s*\((.*)$`),
}

var (
	guidExact = regexp.MustCompile(`^` + guidPattern + `$`)
	guidAny   = regexp.MustCompile(`(?:^|[^0-9a-fA-F-])(` + guidPattern + `)(?:$|[^0-9a-fA-F-])`)
)

// Parse turns the standard output of the scheme-listing command into an
// Inventory. It never fails: lines matching no template are skipped and
// input without any scheme line yields an empty Inventory.
func Parse(text string) *Inventory {
	inv := &Inventory{Schemes: []PowerScheme{}}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		s, ok := parseLine(line)
		if !ok {
			continue
		}
		if s.Active {
			inv.ActiveName = s.Name
			inv.ActiveGUID = s.GUID
		}
		inv.Schemes = append(inv.Schemes, s)
	}
	return inv
}

func parseLine(line string) (PowerScheme, bool) {
	for _, re := range lineTemplates {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, ok := splitName(m[2])
		if !ok {
			continue
		}
		return PowerScheme{
			GUID:   Canonical(m[1]),
			Name:   strings.TrimSpace(name),
			Active: strings.Contains(line, activeMarker),
		}, true
	}
	return PowerScheme{}, false
}

// splitName returns the display name from the text following its opening
// '('. The name ends at the ')' that balances that paren, so "Gaming (copy)"
// stays whole and trailing text such as "* (recommended)" is dropped. If the
// parens never balance the name runs to the last ')'. No ')' at all means
// the line is not a scheme line.
func splitName(rest string) (string, bool) {
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return rest[:i], true
			}
		}
	}
	if i := strings.LastIndexByte(rest, ')'); i >= 0 {
		return rest[:i], true
	}
	return "", false
}

// ParseGUID returns the first GUID token found anywhere in text, canonicalized,
// or "" if there is none. Used for the one-line replies of -duplicatescheme
// and /getactivescheme.
func ParseGUID(text string) string {
	m := guidAny.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return Canonical(m[1])
}

// ValidGUID reports whether s has the 8-4-4-4-12 hex shape.
func ValidGUID(s string) bool {
	return guidExact.MatchString(strings.TrimSpace(s))
}

// Canonical lower-cases and trims a GUID string. It does not validate.
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
