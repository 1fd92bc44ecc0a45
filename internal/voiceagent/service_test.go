// AngelaMos | 2026
// service_test.go

package voiceagent

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

const (
	ownEnterprise     = "11111111-1111-4111-8111-111111111111"
	foreignEnterprise = "22222222-2222-4222-8222-222222222222"
	agentID           = "33333333-3333-4333-8333-333333333333"
)

var (
	fixedNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userScope  = tenant.Scope{UserID: "u1", Role: access.RoleUser, EnterpriseID: ownEnterprise}
	superScope = tenant.Scope{UserID: "s1", Role: access.RoleSuperAdmin}
)

var agentCols = []string{
	"id", "title", "description", "category", "status", "configuration",
	"enterprise_id", "created_by", "created_at", "updated_at",
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	xdb := sqlx.NewDb(db, "sqlmock")
	inTx := func(ctx context.Context, fn func(tx core.DBTX) error) error {
		return core.InTx(ctx, xdb, func(tx *sqlx.Tx) error { return fn(tx) })
	}

	svc := NewService(NewRepository(xdb), inTx, TrialLimits{
		MaxAgents: 2,
		Languages: []string{"hindi", "hinglish", "hi-IN"},
	})
	svc.now = func() time.Time { return fixedNow }
	return svc, mock
}

func expectQuota(mock sqlmock.Sqlmock, enterpriseID, status string, end *time.Time, agents int) {
	var endVal driver.Value
	if end != nil {
		endVal = *end
	}
	mock.ExpectQuery(`FROM enterprises e\s+WHERE e.id = \$1\s+FOR UPDATE OF e`).
		WithArgs(enterpriseID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "trial_end_date", "agents"}).
			AddRow(status, endVal, agents))
}

func hindiAgent() CreateVoiceAgentRequest {
	return CreateVoiceAgentRequest{
		Title:         "Clinic Reception",
		Category:      "Inbound Calls",
		Configuration: Configuration{Language: "Hindi", WelcomeMessage: "Namaste"},
		EnterpriseID:  foreignEnterprise,
	}
}

func TestCreateIgnoresClientEnterprise(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "active", nil, 7)
	mock.ExpectQuery(`INSERT INTO voice_agents`).
		WithArgs(sqlmock.AnyArg(), "Clinic Reception", nil, "Inbound Calls", "active",
			sqlmock.AnyArg(), ownEnterprise, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))
	mock.ExpectCommit()

	agent, err := svc.Create(context.Background(), userScope, hindiAgent())
	require.NoError(t, err)
	assert.Equal(t, ownEnterprise, agent.EnterpriseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTrialQuotaExceeded(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(72 * time.Hour)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 2)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), userScope, hindiAgent())
	require.ErrorIs(t, err, core.ErrQuotaExceeded)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTrialExpired(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(-time.Hour)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 0)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), userScope, hindiAgent())
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
}

func TestCreateTrialLanguageRestricted(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(72 * time.Hour)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 0)
	mock.ExpectRollback()

	req := hindiAgent()
	req.Configuration.Language = "en"

	_, err := svc.Create(context.Background(), userScope, req)
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
}

func TestCreateTrialAgentMarkedTrial(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(72 * time.Hour)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 1)
	mock.ExpectQuery(`INSERT INTO voice_agents`).
		WithArgs(sqlmock.AnyArg(), "Clinic Reception", nil, "Inbound Calls", "trial",
			sqlmock.AnyArg(), ownEnterprise, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))
	mock.ExpectCommit()

	agent, err := svc.Create(context.Background(), userScope, hindiAgent())
	require.NoError(t, err)
	assert.Equal(t, StatusTrial, agent.Status)
}

func TestCreateInactiveEnterpriseForbidden(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "inactive", nil, 0)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), userScope, hindiAgent())
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSuperAdminMustNameEnterprise(t *testing.T) {
	svc, _ := newTestService(t)

	req := hindiAgent()
	req.EnterpriseID = ""

	_, err := svc.Create(context.Background(), superScope, req)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetForeignAgentIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT .+ FROM voice_agents WHERE id = \$1 AND enterprise_id = \$2`).
		WithArgs(agentID, ownEnterprise).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Get(context.Background(), userScope, agentID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListSuperAdminSpansEnterprises(t *testing.T) {
	svc, mock := newTestService(t)
	other := "44444444-4444-4444-8444-444444444444"

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM voice_agents WHERE TRUE$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM voice_agents\s+WHERE TRUE\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(agentCols).
			AddRow(agentID, "Reception", nil, "Inbound Calls", "active", []byte(`{}`),
				ownEnterprise, nil, fixedNow, fixedNow).
			AddRow(other, "Sales", nil, "Outbound Calls", "trial", []byte(`{}`),
				foreignEnterprise, nil, fixedNow, fixedNow))

	agents, total, err := svc.List(context.Background(), superScope, ListVoiceAgentsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	enterprises := make([]string, 0, len(agents))
	for _, a := range agents {
		enterprises = append(enterprises, a.EnterpriseID)
	}
	assert.ElementsMatch(t, []string{ownEnterprise, foreignEnterprise}, enterprises)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSuperAdminNarrowsByEnterprise(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM voice_agents WHERE enterprise_id = \$1$`).
		WithArgs(foreignEnterprise).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM voice_agents\s+WHERE enterprise_id = \$1\s+ORDER BY`).
		WithArgs(foreignEnterprise, 20, 0).
		WillReturnRows(sqlmock.NewRows(agentCols))

	_, _, err := svc.List(context.Background(), superScope, ListVoiceAgentsParams{
		EnterpriseID: foreignEnterprise,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScansConfiguration(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT .+ FROM voice_agents WHERE id = \$1$`).
		WithArgs(agentID).
		WillReturnRows(sqlmock.NewRows(agentCols).AddRow(
			agentID, "Sales", nil, "Outbound Calls", "active",
			[]byte(`{"language":"hinglish","use_case":"sales","agent_prompt":"Be brief."}`),
			foreignEnterprise, nil, fixedNow, fixedNow,
		))

	agent, err := svc.Get(context.Background(), superScope, agentID)
	require.NoError(t, err)
	assert.Equal(t, "hinglish", agent.Configuration.Language)
	assert.Equal(t, "Be brief.", agent.Configuration.AgentPrompt)
}

func TestUpdateKeepsTrialStatus(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT .+ FROM voice_agents`).
		WithArgs(agentID, ownEnterprise).
		WillReturnRows(sqlmock.NewRows(agentCols).AddRow(
			agentID, "Sales", nil, "Outbound Calls", "trial", []byte(`{}`),
			ownEnterprise, nil, fixedNow, fixedNow,
		))
	mock.ExpectQuery(`UPDATE voice_agents`).
		WithArgs("Sales v2", nil, "Outbound Calls", "trial", sqlmock.AnyArg(), agentID, ownEnterprise).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(fixedNow))

	title, status := "Sales v2", StatusActive
	agent, err := svc.Update(context.Background(), userScope, agentID, UpdateVoiceAgentRequest{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusTrial, agent.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectOwnAgent(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(`SELECT .+ FROM voice_agents`).
		WithArgs(agentID, ownEnterprise).
		WillReturnRows(sqlmock.NewRows(agentCols).AddRow(
			agentID, "Sales", nil, "Outbound Calls", status,
			[]byte(`{"language":"hindi"}`), ownEnterprise, nil, fixedNow, fixedNow,
		))
}

func TestUpdateTrialLanguageRestricted(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(72 * time.Hour)

	expectOwnAgent(mock, StatusTrial)
	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 1)
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), userScope, agentID, UpdateVoiceAgentRequest{
		Configuration: &Configuration{Language: "english"},
	})
	require.ErrorIs(t, err, core.ErrQuotaExceeded)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTrialLanguageAllowed(t *testing.T) {
	svc, mock := newTestService(t)
	end := fixedNow.Add(72 * time.Hour)

	expectOwnAgent(mock, StatusTrial)
	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "trial", &end, 1)
	mock.ExpectQuery(`UPDATE voice_agents`).
		WithArgs("Sales", nil, "Outbound Calls", "trial", sqlmock.AnyArg(), agentID, ownEnterprise).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(fixedNow))
	mock.ExpectCommit()

	agent, err := svc.Update(context.Background(), userScope, agentID, UpdateVoiceAgentRequest{
		Configuration: &Configuration{Language: "Hinglish"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hinglish", agent.Configuration.Language)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLanguageFreeAfterUpgrade(t *testing.T) {
	svc, mock := newTestService(t)

	expectOwnAgent(mock, StatusTrial)
	mock.ExpectBegin()
	expectQuota(mock, ownEnterprise, "active", nil, 1)
	mock.ExpectQuery(`UPDATE voice_agents`).
		WithArgs("Sales", nil, "Outbound Calls", "trial", sqlmock.AnyArg(), agentID, ownEnterprise).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(fixedNow))
	mock.ExpectCommit()

	_, err := svc.Update(context.Background(), userScope, agentID, UpdateVoiceAgentRequest{
		Configuration: &Configuration{Language: "english"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForeignAgentIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`DELETE FROM voice_agents WHERE id = \$1 AND enterprise_id = \$2`).
		WithArgs(agentID, ownEnterprise).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), userScope, agentID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestConfigurationScanNull(t *testing.T) {
	c := Configuration{Language: "hindi"}
	require.NoError(t, c.Scan(nil))
	assert.Equal(t, Configuration{}, c)

	assert.Error(t, c.Scan(42))
}
