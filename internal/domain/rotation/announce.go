package rotation

import (
	"fmt"
	"sort"
	"strings"

	"team_rotator/internal/domain/member"
)

// Entry is an assignment joined with the names needed to render it.
type Entry struct {
	AssignmentID     int64
	TaskName         string
	PreviewLookahead int
	MemberID         int64
	DisplayName      string
	Handle           string
}

// Mention renders a member reference for a chat message: <@handle>, or the display name without a handle.
func Mention(displayName, handle string) string {
	if handle == "" {
		return displayName
	}
	return "<@" + handle + ">"
}

// FormatAnnouncement renders one line per entry, ordered by assignment ID.
// Tasks with a preview lookahead get extra "(Day + k)" lines naming the members k steps after the
// current holder. The boolean is false when there is nothing to announce.
func FormatAnnouncement(entries []Entry, members []member.Member) (string, bool) {
	return FormatAnnouncementWith(entries, members, Mention)
}

// FormatAnnouncementWith is FormatAnnouncement with a custom mention renderer.
func FormatAnnouncementWith(entries []Entry, members []member.Member, mention func(displayName, handle string) string) (string, bool) {
	if mention == nil {
		mention = Mention
	}
	if len(entries) == 0 {
		return "", false
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AssignmentID < sorted[j].AssignmentID })

	roster := NewRoster(members)
	var b strings.Builder
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s: %s\n", e.TaskName, mention(e.DisplayName, e.Handle))

		if e.PreviewLookahead <= 0 || roster.IndexOf(e.MemberID) < 0 {
			continue
		}
		for k := 1; k <= e.PreviewLookahead; k++ {
			next, err := roster.Advance(e.MemberID, k)
			if err != nil {
				break
			}
			fmt.Fprintf(&b, "%s(Day + %d): %s\n", e.TaskName, k, mention(next.DisplayName, next.NotificationHandle))
		}
	}
	return b.String(), true
}
