package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/task"
)

func TestMemberRepository_CreateNeverReusesIDs(t *testing.T) {
	s := New()
	s.PutMember(member.Member{ID: 4, DisplayName: "Ann"})
	repo := s.Members()
	ctx := context.Background()

	bob := member.Member{DisplayName: "Bob"}
	require.NoError(t, repo.Create(ctx, &bob))
	require.Equal(t, int64(5), bob.ID)

	require.NoError(t, repo.Delete(ctx, bob.ID))
	cid := member.Member{DisplayName: "Cid"}
	require.NoError(t, repo.Create(ctx, &cid))
	require.Equal(t, int64(6), cid.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []member.Member{{ID: 4, DisplayName: "Ann"}, {ID: 6, DisplayName: "Cid"}}, all)
}

func TestMemberRepository_UpdateAndDeleteMissing(t *testing.T) {
	repo := New().Members()
	ctx := context.Background()

	require.ErrorIs(t, repo.Update(ctx, member.Member{ID: 1, DisplayName: "Ann"}), member.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, 1), member.ErrNotFound)
}

func TestTaskRepository_CRUD(t *testing.T) {
	repo := New().Tasks()
	ctx := context.Background()

	standup := task.Task{Name: "Standup", RotationRule: "daily"}
	require.NoError(t, repo.Create(ctx, &standup))
	require.Equal(t, int64(1), standup.ID)

	standup.RotationRule = "weekly_monday"
	require.NoError(t, repo.Update(ctx, standup))
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []task.Task{standup}, all)

	require.NoError(t, repo.Delete(ctx, standup.ID))
	require.ErrorIs(t, repo.Delete(ctx, standup.ID), task.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, standup), task.ErrNotFound)
}

func TestAssignmentRepository_Delete(t *testing.T) {
	repo := New().Assignments()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, assignment.Assignment{ID: 7, TaskID: 1, MemberID: 1}))

	require.NoError(t, repo.Delete(ctx, 7))
	require.ErrorIs(t, repo.Delete(ctx, 7), assignment.ErrNotFound)
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
