package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/auth"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Register(ctx, RegisterInput{
		Name: "Alice", Username: "alice", Email: " Alice@Gmail.com ", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", res.Email)
	assert.NotEmpty(t, res.Token)

	id, err := f.users.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID, id)

	user, err := f.users.Me(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRole, user.Role)
	assert.Equal(t, models.DefaultAvatar, user.Avatar)
	assert.NotEqual(t, "secret1", user.Password)

	mail := f.mail.messages()
	require.Len(t, mail, 1)
	assert.Equal(t, []string{"alice@gmail.com"}, mail[0].recipients)
	assert.Contains(t, mail[0].body, "https://folio.example.com/p/alice")
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":     {Username: "alice", Email: "alice@gmail.com", Password: "secret1"},
		"short username":   {Name: "A", Username: "al", Email: "alice@gmail.com", Password: "secret1"},
		"bad username":     {Name: "A", Username: "al ice", Email: "alice@gmail.com", Password: "secret1"},
		"bad email":        {Name: "A", Username: "alice", Email: "alice-at-gmail", Password: "secret1"},
		"short password":   {Name: "A", Username: "alice", Email: "alice@gmail.com", Password: "12345"},
		"missing password": {Name: "A", Username: "alice", Email: "alice@gmail.com"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.users.Register(ctx, in)
			require.Error(t, err)
			assert.True(t, errs.IsBadRequest(err))
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.users.Register(ctx, RegisterInput{Name: "A", Username: "alice2", Email: "alice@gmail.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errs.StatusOf(err))
	assert.Contains(t, err.Error(), "email already exists")

	_, err = f.users.Register(ctx, RegisterInput{Name: "A", Username: "alice", Email: "other@gmail.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errs.StatusOf(err))
	assert.Contains(t, err.Error(), "username already taken")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	res, err := f.users.Login(ctx, LoginInput{Email: "alice@gmail.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, alice, res.ID)

	_, err = f.users.Login(ctx, LoginInput{Email: "alice@gmail.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	_, err = f.users.Login(ctx, LoginInput{Email: "nobody@gmail.com", Password: "secret1"})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Authenticate(ctx, "")
	assert.True(t, errs.IsMissingTokenError(err))

	_, err = f.users.Authenticate(ctx, "garbage")
	assert.True(t, errs.IsInvalidTokenError(err))
	assert.Equal(t, http.StatusUnauthorized, errs.StatusOf(err))

	ghost, err := f.tokens.Generate(uuid.New())
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, ghost)
	assert.True(t, errs.IsInvalidTokenError(err), "tokens of deleted users are rejected")

	other, err := auth.NewTokenIssuer("another-secret", 0)
	require.NoError(t, err)
	forged, err := other.Generate(f.register(t, "alice"))
	require.NoError(t, err)
	_, err = f.users.Authenticate(ctx, forged)
	assert.Equal(t, http.StatusUnauthorized, errs.StatusOf(err))
}

func TestProfileUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	user, err := f.users.UpdateProfile(ctx, alice, ProfileInput{Bio: "Gopher"})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", user.Bio)
	assert.Equal(t, "alice tester", user.Name, "empty fields keep their value")
	assert.Equal(t, models.DefaultRole, user.Role)

	long := make([]byte, models.MaxBioLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.users.UpdateProfile(ctx, alice, ProfileInput{Bio: string(long)})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	user, err = f.users.UpdateAvatar(ctx, alice, "https://img.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", user.Avatar)
	_, err = f.users.UpdateAvatar(ctx, alice, "")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	_, err = f.users.UpdateSocialLinks(ctx, alice, []byte(`{"github":"https://github.com/alice"}`))
	require.NoError(t, err)
	user, err = f.users.UpdateSocialLinks(ctx, alice, []byte(`{"twitter":"https://x.com/alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/alice", user.SocialLinks.GitHub)
	assert.Equal(t, "https://x.com/alice", user.SocialLinks.Twitter)

	user, err = f.users.UpdateSkills(ctx, alice, []models.Skill{{Name: "Go", Proficiency: 5}})
	require.NoError(t, err)
	require.Len(t, user.Skills, 1)
	_, err = f.users.UpdateSkills(ctx, alice, []models.Skill{{Name: "Go", Proficiency: 7}})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	user, err = f.users.UpdateResume(ctx, alice, "https://cdn.example.com/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cv.pdf", user.ResumeURL)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.users.ResetPassword(ctx, ResetPasswordInput{Email: "alice@yahoo.com", NewPassword: "newsecret"})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	_, err = f.users.ResetPassword(ctx, ResetPasswordInput{Email: "alice@gmail.com", NewPassword: "short"})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	_, err = f.users.ResetPassword(ctx, ResetPasswordInput{Email: "ghost@gmail.com", NewPassword: "newsecret"})
	assert.True(t, errs.IsNotFound(err))

	id, err := f.users.ResetPassword(ctx, ResetPasswordInput{Email: "alice@gmail.com", NewPassword: "newsecret"})
	require.NoError(t, err)
	assert.Equal(t, alice, id)

	_, err = f.users.Login(ctx, LoginInput{Email: "alice@gmail.com", Password: "secret1"})
	assert.Error(t, err)
	_, err = f.users.Login(ctx, LoginInput{Email: "alice@gmail.com", Password: "newsecret"})
	assert.NoError(t, err)

	mail := f.mail.messages()
	require.Len(t, mail, 2)
	assert.Equal(t, "Your password was changed", mail[1].subject)
}
