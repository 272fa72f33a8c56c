package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/auth"
	"github.com/rpupo63/portfolio-builder-backend/database/memory"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	subject    string
	body       string
	recipients []string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Send(_ context.Context, subject, html string, recipients []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{subject: subject, body: html, recipients: recipients})
	return nil
}

func (n *recordingNotifier) messages() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

type fixture struct {
	store      *memory.Store
	tokens     *auth.TokenIssuer
	mail       *recordingNotifier
	users      *UserService
	portfolios *PortfolioService
	projects   *ProjectService
	reviews    *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	mail := &recordingNotifier{}

	return &fixture{
		store:  store,
		tokens: tokens,
		mail:   mail,
		users: NewUserService(store.UserRepo(), tokens, mail, UserServiceOptions{
			PublicBaseURL: "https://folio.example.com",
		}),
		portfolios: NewPortfolioService(store.PortfolioRepo(), store.ProjectRepo(), store.UserRepo()),
		projects:   NewProjectService(store.ProjectRepo()),
		reviews:    NewReviewService(store.ReviewRepo()),
	}
}

// register creates username with a gmail address and returns its id.
func (f *fixture) register(t *testing.T, username string) uuid.UUID {
	t.Helper()
	res, err := f.users.Register(context.Background(), RegisterInput{
		Name:     username + " tester",
		Username: username,
		Email:    username + "@gmail.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return res.ID
}

func (f *fixture) createPortfolio(t *testing.T, owner uuid.UUID, body string) uuid.UUID {
	t.Helper()
	p, err := f.portfolios.Create(context.Background(), owner, []byte(body))
	require.NoError(t, err)
	return p.ID
}
