package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/logger"
	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/repository"
)

const minPasswordLength = 8

// userService handles user-related business logic.
type userService struct {
	repos repository.Store
	audit AuditServicer
	now   func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(repos repository.Store, audit AuditServicer) UserServicer {
	return &userService{repos: repos, audit: audit, now: time.Now}
}

// SignUp creates a company together with its first user, an ADMIN.
func (s *userService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	companyName := strings.TrimSpace(in.CompanyName)
	if len(companyName) < minNameLength {
		return nil, invalid("company name must be at least %d characters", minNameLength)
	}
	currency := models.Currency(strings.ToUpper(strings.TrimSpace(in.Currency)))
	if currency == "" {
		currency = models.CurrencyUSD
	}
	if !currency.Valid() {
		return nil, invalid("unsupported currency %q", in.Currency)
	}
	name, err := normalizePersonName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	company := &models.Company{
		Name:     companyName,
		Country:  strings.TrimSpace(in.Country),
		Currency: string(currency),
	}
	if err := s.repos.Companies.Create(ctx, company); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		CompanyID: company.ID,
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.audit.Log(ctx, user, models.AuditActionSignUp, resourceUser, user.ID, map[string]any{"company_id": company.ID})
	logger.Get().Infow("company signed up", "company_id", company.ID, "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and stamps the last login time.
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := s.repos.Users.Update(ctx, user); err != nil {
		logger.Get().Warnw("failed to record last login", "error", err, "user_id", user.ID)
	}
	return user, nil
}

// Invite adds a user to the admin's company with a generated password.
func (s *userService) Invite(ctx context.Context, actorID, name, email string, role models.Role) (*models.User, string, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, "", err
	}
	name, err = normalizePersonName(name)
	if err != nil {
		return nil, "", err
	}
	email, err = normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}
	if !role.Valid() {
		return nil, "", invalid("unknown role %q", role)
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, "", err
	}

	password, err := temporaryPassword()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		CompanyID: admin.CompanyID,
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, "", storeError(err, apperrors.ErrUserNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionInvite, resourceUser, user.ID, map[string]any{"email": email, "role": role})
	return user, password, nil
}

// ChangeRole sets the role of a user in the admin's company. Admins cannot
// demote themselves.
func (s *userService) ChangeRole(ctx context.Context, actorID, userID string, role models.Role) (*models.User, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	user, err := s.member(ctx, admin, userID)
	if err != nil {
		return nil, err
	}
	if user.ID == admin.ID && role != models.RoleAdmin {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "admins cannot demote themselves")
	}

	previous := user.Role
	user.Role = role
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionRole, resourceUser, user.ID, map[string]any{"from": previous, "to": role})
	return user, nil
}

// DeleteUser removes a user from the admin's company. Admins cannot delete
// themselves.
func (s *userService) DeleteUser(ctx context.Context, actorID, userID string) error {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return err
	}
	user, err := s.member(ctx, admin, userID)
	if err != nil {
		return err
	}
	if user.ID == admin.ID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "admins cannot delete themselves")
	}
	if err := s.repos.Users.Delete(ctx, user.ID); err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionDelete, resourceUser, user.ID, map[string]any{"email": user.Email})
	return nil
}

// ListUsers returns the users of the admin's company.
func (s *userService) ListUsers(ctx context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	page.Defaults()
	users, total, err := s.repos.Users.List(ctx, admin.CompanyID, nil, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(users, page.Page, page.PageSize, total)
	return &resp, nil
}

// ListManagers returns the users of the actor's company who may review
// expenses, for assigning approval rules.
func (s *userService) ListManagers(ctx context.Context, actorID string) ([]models.User, error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}

	page := pagination.PageRequest{Page: 1, PageSize: pagination.MaxPageSize}
	var managers []models.User
	for {
		batch, total, err := s.repos.Users.List(ctx, actor.CompanyID, []models.Role{models.RoleManager, models.RoleAdmin}, page)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		managers = append(managers, batch...)
		if len(batch) == 0 || int64(len(managers)) >= total {
			break
		}
		page.Page++
	}
	if managers == nil {
		managers = []models.User{}
	}
	return managers, nil
}

// Profile returns the acting user.
func (s *userService) Profile(ctx context.Context, actorID string) (*models.User, error) {
	return loadActor(ctx, s.repos.Users, actorID)
}

func (s *userService) admin(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// member loads a user of the admin's company. Users of other companies are
// reported as not found.
func (s *userService) member(ctx context.Context, admin *models.User, userID string) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	if user.CompanyID != admin.CompanyID {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repos.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return apperrors.ErrDuplicateEmail
	case errors.Is(err, repository.ErrNotFound):
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// temporaryPassword returns 16 random URL-safe characters.
func temporaryPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
