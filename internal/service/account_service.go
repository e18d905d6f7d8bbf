package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/token"
)

// SignupRequest creates an employer account on one board.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company"`
}

// ProfileInput is the mutable employer profile.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Logo           string `json:"logo"`
	BillingAddress string `json:"billingAddress"`
}

// AccountService is the employer account lifecycle: signup, login, profile
// updates and session revocation.
type AccountService interface {
	// Signup creates the account and opens a session. A duplicate email or
	// company within the tenant fails with domain.ErrDuplicateAccount; the
	// existing account is never merged into.
	Signup(ctx context.Context, tenantID string, req SignupRequest) (*domain.User, token.Pair, error)

	// Login verifies credentials and opens a session.
	Login(ctx context.Context, tenantID, email, password string) (*domain.User, token.Pair, error)

	// UpdateProfile overwrites the profile and rotates the token pair so the
	// session immediately reflects the new company fields.
	UpdateProfile(ctx context.Context, userID string, input ProfileInput, oldRefreshToken string) (*domain.User, token.Pair, error)

	// RevokeSessions invalidates every outstanding refresh token for the
	// user by bumping the stored token version.
	RevokeSessions(ctx context.Context, userID string) error
}

type accountService struct {
	usersRepo repository.UsersRepository
	tokens    *token.Service
	notifier  clients.Notifier
	logger    *zap.Logger
}

func NewAccountService(usersRepo repository.UsersRepository, tokens *token.Service, notifier clients.Notifier, logger *zap.Logger) AccountService {
	return &accountService{
		usersRepo: usersRepo,
		tokens:    tokens,
		notifier:  notifier,
		logger:    logger,
	}
}

func payloadFor(user *domain.User) token.Payload {
	return token.Payload{
		UserID:   user.UserID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
		Company:  user.Company,
	}
}

func (s *accountService) Signup(ctx context.Context, tenantID string, req SignupRequest) (*domain.User, token.Pair, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Company = domain.NormalizeCompany(req.Company)
	if tenantID == "" || req.Email == "" || req.Company == "" {
		return nil, token.Pair{}, fmt.Errorf("email and company are required: %w", domain.ErrInvalidRequest)
	}
	if len(req.Password) < 8 {
		return nil, token.Pair{}, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		TenantID:     tenantID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleEmployer,
		Company:      req.Company,
	}
	userID, err := s.usersRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, token.Pair{}, err
	}
	user.UserID = userID

	pair, err := s.tokens.Issue(ctx, payloadFor(user))
	if err != nil {
		return nil, token.Pair{}, err
	}

	// Fire-and-forget, on a context that survives the request.
	go s.notifier.Send(context.WithoutCancel(ctx), user.Email, "welcome", map[string]any{"company": user.Company})
	s.logger.Info("Employer account created",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.String("company", user.Company),
	)
	return user, pair, nil
}

func (s *accountService) Login(ctx context.Context, tenantID, email, password string) (*domain.User, token.Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if tenantID == "" || email == "" || password == "" {
		return nil, token.Pair{}, fmt.Errorf("missing credentials: %w", domain.ErrInvalidRequest)
	}

	user, err := s.usersRepo.GetUserByEmail(ctx, tenantID, email)
	if err != nil {
		s.logger.Warn("Login failed: unknown account",
			zap.String("tenant_id", tenantID),
			zap.String("email", email),
		)
		return nil, token.Pair{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login failed: wrong password",
			zap.String("tenant_id", tenantID),
			zap.String("user_id", user.UserID),
		)
		return nil, token.Pair{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}

	pair, err := s.tokens.Issue(ctx, payloadFor(user))
	if err != nil {
		return nil, token.Pair{}, err
	}

	s.logger.Info("Login successful",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
	)
	return user, pair, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, input ProfileInput, oldRefreshToken string) (*domain.User, token.Pair, error) {
	input.Company = domain.NormalizeCompany(input.Company)
	if input.Company == "" {
		return nil, token.Pair{}, fmt.Errorf("company is required: %w", domain.ErrInvalidRequest)
	}

	if err := s.usersRepo.UpdateProfile(ctx, userID, &domain.User{
		Company:        input.Company,
		Website:        input.Website,
		Logo:           input.Logo,
		BillingAddress: input.BillingAddress,
	}); err != nil {
		return nil, token.Pair{}, err
	}

	user, err := s.usersRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	// Rotate the pair so the session carries the new company immediately.
	// This is the only path that replaces the refresh token.
	pair, err := s.tokens.ResetTokens(ctx, payloadFor(user), oldRefreshToken)
	if err != nil {
		return nil, token.Pair{}, err
	}
	return user, pair, nil
}

func (s *accountService) RevokeSessions(ctx context.Context, userID string) error {
	if err := s.usersRepo.BumpTokenVersion(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("All sessions revoked", zap.String("user_id", userID))
	return nil
}
