package contacts

import "strings"

// Search strategy tags attached to each matched contact.
const (
	SourceDirectory = "Directory"
	SourcePersonal  = "Personal"
	SourceAll       = "All Contacts"
)

// Contact is a normalized view of a People API person.
type Contact struct {
	// Source names the search strategy that produced this contact.
	Source string

	Name       string
	GivenName  string
	FamilyName string

	Emails        []string
	Phones        []string
	Organizations []string // formatted as "title at org" when both present
	Addresses     []string
}

// Format renders the contact as a multi-line block for inclusion in a task
// result.
func (c Contact) Format() string {
	var parts []string

	if c.Name != "" {
		parts = append(parts, "Name: "+c.Name)
	}
	if len(c.Emails) > 0 {
		parts = append(parts, "Emails: "+strings.Join(c.Emails, ", "))
	}
	if len(c.Phones) > 0 {
		parts = append(parts, "Phones: "+strings.Join(c.Phones, ", "))
	}
	if len(c.Organizations) > 0 {
		parts = append(parts, "Organizations: "+strings.Join(c.Organizations, ", "))
	}
	if len(c.Addresses) > 0 {
		parts = append(parts, "Addresses: "+strings.Join(c.Addresses, ", "))
	}

	if len(parts) == 0 {
		return "No contact information available"
	}
	return strings.Join(parts, "\n")
}

// FormatTagged renders the contact prefixed with its strategy tag, e.g.
// "[Directory] Name: ...".
func (c Contact) FormatTagged() string {
	return "[" + c.Source + "] " + c.Format()
}

// MatchesQuery reports whether the contact matches a free-text query by
// case-insensitive substring against names, email addresses, and
// organization names. An empty query matches everything.
func (c Contact) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)

	for _, field := range []string{c.Name, c.GivenName, c.FamilyName} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, email := range c.Emails {
		if strings.Contains(strings.ToLower(email), q) {
			return true
		}
	}
	for _, org := range c.Organizations {
		if strings.Contains(strings.ToLower(org), q) {
			return true
		}
	}
	return false
}
