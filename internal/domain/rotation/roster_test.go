package rotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"team_rotator/internal/domain/member"
)

func members(ids ...int64) []member.Member {
	out := make([]member.Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, member.Member{ID: id, DisplayName: "m" + string(rune('0'+id)), NotificationHandle: "U" + string(rune('0'+id))})
	}
	return out
}

func TestNewRoster_SortsByID(t *testing.T) {
	r := NewRoster(members(5, 1, 3))
	require.Equal(t, []int64{1, 3, 5}, []int64{r[0].ID, r[1].ID, r[2].ID})
}

func TestRosterAdvance(t *testing.T) {
	r := NewRoster(members(1, 2, 3, 4, 5))

	m, err := r.Advance(3, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), m.ID)

	m, err = r.Advance(5, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), m.ID)
}

func TestRosterAdvance_FullCycleReturnsSameMember(t *testing.T) {
	r := NewRoster(members(2, 4, 6, 8))
	for _, m := range r {
		for k := 0; k < 3; k++ {
			got, err := r.Advance(m.ID, k*len(r))
			require.NoError(t, err)
			require.Equal(t, m.ID, got.ID)
		}
	}
}

func TestRosterAdvance_UnknownMember(t *testing.T) {
	_, err := NewRoster(members(1, 2)).Advance(9, 1)

	var notFound *MemberNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, int64(9), notFound.MemberID)

	_, err = NewRoster(nil).Advance(1, 1)
	require.True(t, errors.As(err, &notFound))
}
