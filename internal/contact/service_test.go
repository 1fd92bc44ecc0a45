// AngelaMos | 2026
// service_test.go

package contact

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
	"github.com/bhashai/gateway/internal/voiceagent"
)

const (
	e1        = "11111111-1111-4111-8111-111111111111"
	e2        = "22222222-2222-4222-8222-222222222222"
	agentID   = "33333333-3333-4333-8333-333333333333"
	contactID = "44444444-4444-4444-8444-444444444444"
)

var (
	fixedNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	aliceScope = tenant.Scope{UserID: "alice", Role: access.RoleUser, EnterpriseID: e1}
	superScope = tenant.Scope{UserID: "root", Role: access.RoleSuperAdmin}
)

var contactCols = []string{
	"id", "name", "phone", "email", "status", "notes", "voice_agent_id",
	"enterprise_id", "created_at", "updated_at",
}

type mockAgents struct {
	mock.Mock
}

func (m *mockAgents) Get(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*voiceagent.VoiceAgent, error) {
	args := m.Called(ctx, scope, id)
	if a := args.Get(0); a != nil {
		return a.(*voiceagent.VoiceAgent), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockAgents, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	agents := &mockAgents{}
	return NewService(NewRepository(sqlx.NewDb(db, "sqlmock")), agents), agents, sqlMock
}

func TestCreateCopiesEnterpriseFromAgent(t *testing.T) {
	svc, agents, sqlMock := newTestService(t)

	agents.On("Get", mock.Anything, superScope, agentID).
		Return(&voiceagent.VoiceAgent{ID: agentID, EnterpriseID: e2}, nil)

	sqlMock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs(sqlmock.AnyArg(), "Ravi", "+919876543210", nil, "active", nil, agentID, e2).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))

	c, err := svc.Create(context.Background(), superScope, agentID, CreateContactRequest{
		Name:  " Ravi ",
		Phone: "+91 98765-43210",
	})
	require.NoError(t, err)
	assert.Equal(t, e2, c.EnterpriseID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateForeignAgentIsNotFound(t *testing.T) {
	svc, agents, _ := newTestService(t)

	agents.On("Get", mock.Anything, aliceScope, agentID).
		Return(nil, core.ErrNotFound)

	_, err := svc.Create(context.Background(), aliceScope, agentID, CreateContactRequest{
		Name: "Ravi", Phone: "9876543210",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateDuplicatePhoneConflicts(t *testing.T) {
	svc, agents, sqlMock := newTestService(t)

	agents.On("Get", mock.Anything, aliceScope, agentID).
		Return(&voiceagent.VoiceAgent{ID: agentID, EnterpriseID: e1}, nil)
	sqlMock.ExpectQuery(`INSERT INTO contacts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "contacts_voice_agent_id_phone_key"})

	_, err := svc.Create(context.Background(), aliceScope, agentID, CreateContactRequest{
		Name: "Ravi", Phone: "9876543210",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestListOnlyOwnEnterprise(t *testing.T) {
	svc, _, sqlMock := newTestService(t)

	sqlMock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts WHERE enterprise_id = \$1$`).
		WithArgs(e1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	sqlMock.ExpectQuery(`FROM contacts\s+WHERE enterprise_id = \$1\s+ORDER BY`).
		WithArgs(e1, 20, 0).
		WillReturnRows(sqlmock.NewRows(contactCols).AddRow(
			contactID, "Ravi", "9876543210", nil, "active", nil, agentID, e1, fixedNow, fixedNow,
		))

	contacts, total, err := svc.List(context.Background(), aliceScope, ListContactsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	for _, c := range contacts {
		assert.Equal(t, e1, c.EnterpriseID)
	}
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListSuperAdminSpansEnterprises(t *testing.T) {
	svc, _, sqlMock := newTestService(t)
	other := "55555555-5555-4555-8555-555555555555"

	sqlMock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts WHERE TRUE$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	sqlMock.ExpectQuery(`FROM contacts\s+WHERE TRUE\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(contactID, "Ravi", "9876543210", nil, "active", nil, agentID, e1, fixedNow, fixedNow).
			AddRow(other, "Meera", "9123456780", nil, "active", nil, agentID, e2, fixedNow, fixedNow))

	contacts, total, err := svc.List(context.Background(), superScope, ListContactsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	enterprises := make([]string, 0, len(contacts))
	for _, c := range contacts {
		enterprises = append(enterprises, c.EnterpriseID)
	}
	assert.ElementsMatch(t, []string{e1, e2}, enterprises)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetOtherEnterpriseContactIsNotFound(t *testing.T) {
	svc, _, sqlMock := newTestService(t)

	sqlMock.ExpectQuery(`SELECT .+ FROM contacts WHERE id = \$1 AND enterprise_id = \$2`).
		WithArgs(contactID, e1).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Get(context.Background(), aliceScope, contactID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListForAgentChecksAgentFirst(t *testing.T) {
	svc, agents, sqlMock := newTestService(t)

	agents.On("Get", mock.Anything, aliceScope, agentID).
		Return(nil, core.ErrNotFound)

	_, _, err := svc.ListForAgent(context.Background(), aliceScope, agentID, ListContactsParams{})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateRejectsBadPhone(t *testing.T) {
	svc, _, sqlMock := newTestService(t)

	sqlMock.ExpectQuery(`SELECT .+ FROM contacts`).
		WithArgs(contactID, e1).
		WillReturnRows(sqlmock.NewRows(contactCols).AddRow(
			contactID, "Ravi", "9876543210", nil, "active", nil, agentID, e1, fixedNow, fixedNow,
		))

	phone := "call me maybe"
	_, err := svc.Update(context.Background(), aliceScope, contactID, UpdateContactRequest{Phone: &phone})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+91 98765-43210": "+919876543210",
		"(022) 2345.6789": "02223456789",
		"  9876543210  ":  "9876543210",
		"98765+43210":     "",
		"ext 12345":       "",
		"123":             "",
		"+1234":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}
