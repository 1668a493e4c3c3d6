package model

// Icons used by status entries of the findings list.
const (
	IconSuccess = "✅"
	IconFailure = "🔴"
	IconInfo    = "ℹ️"
	IconSearch  = "🔍"
)

// Entry is one line of the findings list.
type Entry struct {
	// Icon is shown before the text. Empty for plain status lines.
	Icon string `json:"icon,omitempty"`

	// Text is the line content.
	Text string `json:"text"`
}

// String returns the entry as displayed: icon, a space, then text.
func (e Entry) String() string {
	if e.Icon == "" {
		return e.Text
	}
	return e.Icon + " " + e.Text
}

// AlertEntries converts alerts to findings-list entries, one per alert,
// in order. An empty list yields a single "No threats detected" entry.
func AlertEntries(alerts []Alert) []Entry {
	if len(alerts) == 0 {
		return []Entry{{Icon: IconSuccess, Text: "No threats detected"}}
	}
	entries := make([]Entry, 0, len(alerts))
	for _, a := range alerts {
		entries = append(entries, Entry{Icon: a.Icon(), Text: a.Text})
	}
	return entries
}
