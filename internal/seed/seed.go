// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/contact"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/enterprise"
	"github.com/bhashai/gateway/internal/user"
	"github.com/bhashai/gateway/internal/voiceagent"
)

const contactsPerAgent = 3

type Sample struct {
	Name         string
	Type         string
	ContactEmail string
}

// DefaultSamples covers one enterprise of every type.
var DefaultSamples = []Sample{
	{Name: "Healthcare / Hospital", Type: enterprise.TypeHealthcare, ContactEmail: "info@healthcare.test"},
	{Name: "Clinic / Medical Center", Type: enterprise.TypeClinic, ContactEmail: "info@clinic.test"},
	{Name: "Diagnostic Center", Type: enterprise.TypeDiagnostic, ContactEmail: "info@diagnostic.test"},
	{Name: "Pharmacy", Type: enterprise.TypePharmacy, ContactEmail: "info@pharmacy.test"},
	{Name: "Other", Type: enterprise.TypeOther, ContactEmail: "info@other.test"},
}

type Result struct {
	Enterprises int      `json:"enterprises"`
	Users       int      `json:"users"`
	VoiceAgents int      `json:"voice_agents"`
	Contacts    int      `json:"contacts"`
	Skipped     []string `json:"skipped,omitempty"`
	Logins      []string `json:"logins,omitempty"`
}

type Seeder struct {
	store   core.DBTX
	inTx    core.TxRunner
	hasher  *core.Hasher
	logger  *slog.Logger
	samples []Sample
}

func New(
	store core.DBTX,
	inTx core.TxRunner,
	hasher *core.Hasher,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		store:   store,
		inTx:    inTx,
		hasher:  hasher,
		logger:  logger,
		samples: DefaultSamples,
	}
}

// Run creates each sample enterprise with an admin, a member, a voice agent
// and a few contacts. Enterprises that already exist by name are left
// untouched, so running it twice is harmless. Every sample login shares
// password.
func (s *Seeder) Run(ctx context.Context, password string) (*Result, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, sample := range s.samples {
		created, err := s.seedEnterprise(ctx, sample, hash, res)
		if err != nil {
			return res, fmt.Errorf("seed %q: %w", sample.Name, err)
		}
		if !created {
			res.Skipped = append(res.Skipped, sample.Name)
			s.logger.Info("sample enterprise exists, skipping", "name", sample.Name)
		}
	}

	return res, nil
}

func (s *Seeder) seedEnterprise(
	ctx context.Context,
	sample Sample,
	hash string,
	res *Result,
) (bool, error) {
	var batch Result

	err := s.inTx(ctx, func(tx core.DBTX) error {
		batch = Result{}

		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM enterprises WHERE name = $1)`,
			sample.Name,
		); err != nil {
			return fmt.Errorf("check enterprise: %w", err)
		}
		if exists {
			return nil
		}

		ent := &enterprise.Enterprise{
			ID:           uuid.NewString(),
			Name:         sample.Name,
			Type:         sample.Type,
			ContactEmail: &sample.ContactEmail,
			Status:       enterprise.StatusActive,
		}
		if err := enterprise.NewRepository(tx).Create(ctx, ent); err != nil {
			return err
		}
		batch.Enterprises++

		users := user.NewRepository(tx)
		var adminID string
		for _, role := range []access.Role{access.RoleAdmin, access.RoleUser} {
			u := &user.User{
				ID:           uuid.NewString(),
				Email:        fmt.Sprintf("%s@%s.bhashai.test", role, sample.Type),
				PasswordHash: hash,
				Name:         sample.Name + " " + roleTitle[role],
				Role:         role,
				Status:       user.StatusActive,
				EnterpriseID: &ent.ID,
			}
			if err := users.Create(ctx, u); err != nil {
				return err
			}
			if role == access.RoleAdmin {
				adminID = u.ID
			}
			batch.Logins = append(batch.Logins, u.Email)
			batch.Users++
		}

		agent := &voiceagent.VoiceAgent{
			ID:       uuid.NewString(),
			Title:    "Inbound Assistant",
			Category: "Inbound Calls",
			Status:   voiceagent.StatusActive,
			Configuration: voiceagent.Configuration{
				Language:       "hindi",
				UseCase:        "appointment booking",
				WelcomeMessage: "Namaste! " + sample.Name + " mein aapka swagat hai.",
			},
			EnterpriseID: ent.ID,
			CreatedBy:    &adminID,
		}
		if err := voiceagent.NewRepository(tx).Create(ctx, agent); err != nil {
			return err
		}
		batch.VoiceAgents++

		contacts := contact.NewRepository(tx)
		for i := range contactsPerAgent {
			c := &contact.Contact{
				ID:           uuid.NewString(),
				Name:         fmt.Sprintf("Contact %d", i+1),
				Phone:        fmt.Sprintf("+91980000%04d", i+1),
				Status:       contact.StatusActive,
				VoiceAgentID: agent.ID,
				EnterpriseID: ent.ID,
			}
			if err := contacts.Create(ctx, c); err != nil {
				return err
			}
			batch.Contacts++
		}

		return nil
	})
	if err != nil || batch.Enterprises == 0 {
		return false, err
	}

	res.Enterprises += batch.Enterprises
	res.Users += batch.Users
	res.VoiceAgents += batch.VoiceAgents
	res.Contacts += batch.Contacts
	res.Logins = append(res.Logins, batch.Logins...)
	return true, nil
}

var roleTitle = map[access.Role]string{
	access.RoleAdmin: "Admin",
	access.RoleUser:  "User",
}

// CreateSuperAdmin provisions a platform-wide account with no enterprise.
func (s *Seeder) CreateSuperAdmin(
	ctx context.Context,
	email, name, password string,
) (*user.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         access.RoleSuperAdmin,
		Status:       user.StatusActive,
	}

	if err := user.NewRepository(s.store).Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("super admin created", "user_id", u.ID, "email", u.Email)
	return u, nil
}
