package gmail

import (
	"fmt"
	"strings"
)

// Well-known Gmail system labels used by the sweep operations.
const (
	LabelTrash = "TRASH"
	LabelInbox = "INBOX"
)

// Categories are the standard Gmail inbox categories.
var Categories = []string{"Primary", "Social", "Promotions", "Updates", "Forums"}

// ExtractAddress returns the bare address from a raw From header value.
// "Example News <news@example.com>" yields "news@example.com"; values without
// an angle-bracketed address are returned unchanged.
func ExtractAddress(sender string) string {
	start := strings.Index(sender, "<")
	end := strings.Index(sender, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(sender[start+1 : end])
	}
	return strings.TrimSpace(sender)
}

// SenderQuery builds the search query matching all mail from a sender.
func SenderQuery(sender string) string {
	return fmt.Sprintf("from:%s", ExtractAddress(sender))
}

// SenderInboxQuery builds the search query matching a sender's mail that is
// still in the inbox. Archiving only makes sense for inbox messages.
func SenderInboxQuery(sender string) string {
	return fmt.Sprintf("from:%s in:inbox", ExtractAddress(sender))
}

// CategoryQuery builds the search query matching all mail in a Gmail category.
func CategoryQuery(category string) string {
	return fmt.Sprintf("category:%s", strings.ToLower(category))
}

// TrashQuery matches everything currently in the trash.
const TrashQuery = "in:trash"

// MessageURL returns the Gmail web URL for a message.
func MessageURL(id string) string {
	return "https://mail.google.com/mail/u/0/#inbox/" + id
}

// IsKnownCategory reports whether the given name is a standard Gmail category
// (case-insensitive).
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
