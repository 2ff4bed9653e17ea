package rotation

import (
	"sort"

	"team_rotator/internal/domain/member"
)

// Roster is the member list in rotation order (ID ascending).
type Roster []member.Member

// NewRoster copies and sorts members by ID.
func NewRoster(members []member.Member) Roster {
	r := make(Roster, len(members))
	copy(r, members)
	sort.Slice(r, func(i, j int) bool { return r[i].ID < r[j].ID })
	return r
}

// IndexOf returns the position of memberID, or -1.
func (r Roster) IndexOf(memberID int64) int {
	for i, m := range r {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

// Advance returns the member steps positions after memberID, wrapping around.
func (r Roster) Advance(memberID int64, steps int) (member.Member, error) {
	idx := r.IndexOf(memberID)
	if idx < 0 {
		return member.Member{}, &MemberNotFoundError{MemberID: memberID}
	}
	n := len(r)
	next := ((idx+steps)%n + n) % n
	return r[next], nil
}
