package matching

import (
	"fmt"
	"strings"
)

func buildSummary(score int, matched, missing []string, bonus int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The candidate appears to be a %d%% match for this role. ", score)
	if len(matched) > 0 {
		fmt.Fprintf(&b, "They possess key skills such as %s. ", joinSkills(matched))
	}
	if bonus > 0 {
		b.WriteString("Their score was boosted based on skills you have previously approved. ")
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "However, they may be lacking in areas like %s.", joinSkills(missing))
	} else {
		b.WriteString("They appear to possess all required skills.")
	}
	return b.String()
}
