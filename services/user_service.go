package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/auth"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const DefaultResetPasswordDomain = "gmail.com"

// AuthResult is returned by register and login.
type AuthResult struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileInput struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
	Role string `json:"role"`
}

type ResetPasswordInput struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type UserServiceOptions struct {
	// ResetPasswordDomain is the only email domain allowed to reset a password.
	ResetPasswordDomain string
	// PublicBaseURL is used to link the rendered portfolio in the welcome mail.
	PublicBaseURL string
}

type UserService struct {
	users    UserStore
	tokens   *auth.TokenIssuer
	notifier Notifier
	opts     UserServiceOptions
	logger   zerolog.Logger
}

// NewUserService wires the account operations. notifier may be nil.
func NewUserService(users UserStore, tokens *auth.TokenIssuer, notifier Notifier, opts UserServiceOptions) *UserService {
	if opts.ResetPasswordDomain == "" {
		opts.ResetPasswordDomain = DefaultResetPasswordDomain
	}
	return &UserService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		opts:     opts,
		logger:   log.With().Str("service", "user").Logger(),
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	switch {
	case in.Name == "":
		return nil, errs.NewMissingRequiredFieldError("name")
	case in.Username == "":
		return nil, errs.NewMissingRequiredFieldError("username")
	case in.Email == "":
		return nil, errs.NewMissingRequiredFieldError("email")
	case in.Password == "":
		return nil, errs.NewMissingRequiredFieldError("password")
	}
	if err := models.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := models.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewConflictError("email already exists")
	}
	existing, err = s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewConflictError("username already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errs.NewInternalError("failed to hash password")
	}

	user := models.User{
		Name:        in.Name,
		Username:    in.Username,
		Email:       in.Email,
		Password:    hash,
		Role:        models.DefaultRole,
		Avatar:      models.DefaultAvatar,
		Skills:      datatypes.JSONSlice[models.Skill]{},
		SocialLinks: models.SocialLinks{},
	}
	if err := s.users.Add(ctx, &user); err != nil {
		apiErr := errs.NewDatabaseError("create", "user", err)
		if errs.IsConflict(apiErr) {
			return nil, errs.NewConflictError("email or username already taken")
		}
		return nil, apiErr
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, errs.NewInternalError("failed to issue token")
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("username", user.Username).Msg("user registered")
	s.notify(ctx, user.Email, "Welcome to Portfolio Builder", welcomeBody(user, s.opts.PublicBaseURL))

	return &AuthResult{ID: user.ID, Name: user.Name, Username: user.Username, Email: user.Email, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, errs.NewBadRequestError("please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil || !auth.ComparePassword(user.Password, in.Password) {
		return nil, errs.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, errs.NewInternalError("failed to issue token")
	}
	return &AuthResult{ID: user.ID, Name: user.Name, Username: user.Username, Email: user.Email, Token: token}, nil
}

// Authenticate resolves a bearer token to the id of a user that still exists.
func (s *UserService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errs.NewMissingTokenError()
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			return uuid.Nil, errs.NewExpiredTokenError()
		}
		return uuid.Nil, errs.NewInvalidTokenError(err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return uuid.Nil, errs.NewInvalidTokenError(fmt.Errorf("user %s no longer exists", id))
	}
	return id, nil
}

func (s *UserService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFoundError("user not found")
	}
	return user, nil
}

// UpdateProfile sets name, bio and role. Empty inputs keep the stored value.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Bio) > models.MaxBioLength {
		return nil, errs.NewInvalidFieldError("bio", "bio cannot be more than 500 characters")
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if role := strings.TrimSpace(in.Role); role != "" {
		user.Role = role
	}
	return s.save(ctx, user)
}

func (s *UserService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.User, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return nil, errs.NewMissingRequiredFieldError("avatarUrl")
	}
	user, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Avatar = avatarURL
	return s.save(ctx, user)
}

// UpdateSocialLinks shallow-merges patch over the stored links.
func (s *UserService) UpdateSocialLinks(ctx context.Context, id uuid.UUID, patch []byte) (*models.User, error) {
	user, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := overlay(patch, &user.SocialLinks, "social links"); err != nil {
		return nil, err
	}
	return s.save(ctx, user)
}

// UpdateSkills replaces the skill list.
func (s *UserService) UpdateSkills(ctx context.Context, id uuid.UUID, skills []models.Skill) (*models.User, error) {
	if skills == nil {
		return nil, errs.NewMissingRequiredFieldError("skills")
	}
	if err := models.ValidateSkills(skills); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Skills = datatypes.JSONSlice[models.Skill](skills)
	return s.save(ctx, user)
}

func (s *UserService) UpdateResume(ctx context.Context, id uuid.UUID, resumeURL string) (*models.User, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return nil, errs.NewMissingRequiredFieldError("resumeUrl")
	}
	user, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	user.ResumeURL = resumeURL
	return s.save(ctx, user)
}

// ResetPassword sets a new password for the account registered under email
// and returns its id.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) (uuid.UUID, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.NewPassword == "" {
		return uuid.Nil, errs.NewBadRequestError("please provide email and new password")
	}
	if err := models.ValidateEmail(email); err != nil {
		return uuid.Nil, err
	}
	if !strings.HasSuffix(email, "@"+strings.ToLower(s.opts.ResetPasswordDomain)) {
		return uuid.Nil, errs.NewInvalidFieldError("email", "please use a valid "+s.opts.ResetPasswordDomain+" address")
	}
	if err := models.ValidatePassword(in.NewPassword); err != nil {
		return uuid.Nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return uuid.Nil, errs.NewNotFoundError("no user found with this email")
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return uuid.Nil, errs.NewInternalError("failed to hash password")
	}
	user.Password = hash
	if err := s.users.Update(ctx, user); err != nil {
		return uuid.Nil, errs.NewDatabaseError("update", "user", err)
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("password reset")
	s.notify(ctx, user.Email, "Your password was changed",
		fmt.Sprintf("<p>Hi %s,</p><p>The password for your Portfolio Builder account was just changed. If this wasn't you, reset it again right away.</p>", html.EscapeString(user.Name)))
	return user.ID, nil
}

func (s *UserService) save(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.users.Update(ctx, user); err != nil {
		return nil, errs.NewDatabaseError("update", "user", err)
	}
	return s.Me(ctx, user.ID)
}

// notify delivers mail on a best effort basis; failures are only logged.
func (s *UserService) notify(ctx context.Context, to, subject, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, subject, body, []string{to}); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to send email")
	}
}

func welcomeBody(user models.User, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p><p>Your Portfolio Builder account <strong>%s</strong> is ready.</p>",
		html.EscapeString(user.Name), html.EscapeString(user.Username))
	if link := BuildPublicPortfolioURL(baseURL, user.Username); link != "" {
		fmt.Fprintf(&b, `<p>Once you publish it, your portfolio will live at <a href="%s">%s</a>.</p>`,
			html.EscapeString(link), html.EscapeString(link))
	}
	return b.String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
