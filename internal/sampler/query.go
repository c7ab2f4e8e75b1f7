package sampler

import (
	"fmt"
	"strings"
)

// unsubscribeSignal is the content filter that biases sampling toward
// bulk/marketing mail: subject keywords, the List-Unsubscribe header, and
// common unsubscribe body phrases.
const unsubscribeSignal = `(subject:"unsubscribe" OR ` +
	`subject:"subscription" OR ` +
	`subject:"newsletter" OR ` +
	`list-unsubscribe:* OR ` +
	`"click here to unsubscribe" OR ` +
	`"to stop receiving" OR ` +
	`"opt out" OR ` +
	`"email preferences")`

// periodQuery builds the search query for one period. All period queries
// restrict to the inbox and exclude the authenticated address as sender;
// withSignal additionally applies the unsubscribe-signal content filter.
func periodQuery(p Period, self string, withSignal bool) string {
	var b strings.Builder
	b.WriteString("in:inbox ")
	b.WriteString(p.Age)
	if self != "" {
		fmt.Fprintf(&b, " -from:%s", self)
	}
	if withSignal {
		b.WriteString(" ")
		b.WriteString(unsubscribeSignal)
	}
	return b.String()
}
