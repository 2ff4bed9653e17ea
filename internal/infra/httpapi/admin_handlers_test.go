package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"team_rotator/internal/app"
	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
	"team_rotator/internal/infra/memstore"
)

func newAdminServer(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.PutMember(member.Member{ID: 1, DisplayName: "Ann", NotificationHandle: "U1"})
	store.PutTask(task.Task{ID: 1, Name: "Standup", RotationRule: "daily"})
	require.NoError(t, store.Assignments().Upsert(context.Background(), assignment.Assignment{
		ID: 1, TaskID: 1, MemberID: 1,
		PeriodStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
	}))

	svc := app.NewRotationService(app.Repositories{
		Members:     store.Members(),
		Tasks:       store.Tasks(),
		Assignments: store.Assignments(),
		Configs:     store.Configs(),
	}, nil, nil, app.ServiceConfig{Location: time.UTC})
	return newServerWithAdmin(t, &fakeService{}, nil, app.NewAdminService(svc)), store
}

func TestConfig_SaveAndListRedactsWebhooks(t *testing.T) {
	h, store := newAdminServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/config",
		`{"key":"Slack:WebhookUrl","value":"https://hooks.slack.com/services/T0/B0/SECRET","modifiedBy":"ops"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "SECRET")

	stored, err := store.Configs().Get(context.Background(), sysconfig.KeySlackWebhookURL)
	require.NoError(t, err)
	require.Equal(t, "https://hooks.slack.com/services/T0/B0/SECRET", stored.Value)

	rec = do(t, h, http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []sysconfig.Entry
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "https://hooks.slack.com/...", entries[0].Value)
	require.Equal(t, "ops", entries[0].ModifiedBy)

	rec = doJSON(t, h, http.MethodPost, "/api/config", `{"key":"","value":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/config", `{"key":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMembers_CreateUpdateDelete(t *testing.T) {
	h, store := newAdminServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/members", `{"displayName":"Bob","notificationHandle":"U2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bob member.Member
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &bob))
	require.Equal(t, int64(2), bob.ID)

	rec = doJSON(t, h, http.MethodPut, "/api/members", `{"id":2,"displayName":"Bobby","notificationHandle":"U2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodPut, "/api/members", `{"id":9,"displayName":"Ghost"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodDelete, "/api/members").Code)
	require.Equal(t, http.StatusConflict, do(t, h, http.MethodDelete, "/api/members?id=1").Code)

	rec = do(t, h, http.MethodDelete, "/api/members?id=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())

	members, err := store.Members().ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []member.Member{{ID: 1, DisplayName: "Ann", NotificationHandle: "U1"}}, members)
}

func TestTasks_CreateValidateDelete(t *testing.T) {
	h, store := newAdminServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"Retro","rotationRule":"fortnightly"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"Retro","rotationRule":"biweekly_friday","previewLookahead":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var retro task.Task
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &retro))
	require.Equal(t, int64(2), retro.ID)

	rec = doJSON(t, h, http.MethodPut, "/api/tasks", `{"id":2,"name":"Retro","rotationRule":"weekly_friday"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/tasks?id=1").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/tasks?id=1").Code)

	assignments, err := store.Assignments().ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, assignments)
}

func TestAssignments_Save(t *testing.T) {
	h, store := newAdminServer(t)
	doJSON(t, h, http.MethodPost, "/api/members", `{"displayName":"Bob"}`)

	rec := doJSON(t, h, http.MethodPost, "/api/assignments", `{"taskId":1,"memberId":2,"periodStart":"2024-01-09","periodEnd":"2024-01-09"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	all, err := store.Assignments().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, int64(2), all[0].MemberID)

	rec = doJSON(t, h, http.MethodPost, "/api/assignments", `{"id":5,"taskId":1,"memberId":1,"periodStart":"2024-01-09","periodEnd":"2024-01-09"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/assignments", `{"taskId":1,"memberId":7,"periodStart":"2024-01-09","periodEnd":"2024-01-09"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesOmittedWithoutAdmin(t *testing.T) {
	h := newTestServer(t, &fakeService{}, nil)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/config").Code)
}
