package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
	"github.com/scrapworks/junkshop-api/pkg/oauth"
	"github.com/scrapworks/junkshop-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	google     *oauth.GoogleProvider
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	google *oauth.GoogleProvider,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		google:     google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	var errs []apperror.FieldError
	if input.FirstName == "" {
		errs = append(errs, apperror.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if input.Email == "" {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if len(input.Password) < 8 {
		errs = append(errs, apperror.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}
	if len(input.NewPassword) < 8 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "new_password", Message: "Password must be at least 8 characters"},
		})
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// GoogleAuthURL returns the Google consent URL for the given state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.Enabled() {
		return "", oauth.ErrOAuthNotConfigured
	}
	return s.google.ConsentURL(state), nil
}

// GoogleLogin exchanges an OAuth authorization code, provisioning a profile
// for first-time Google users.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.Enabled() {
		return nil, oauth.ErrOAuthNotConfigured
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	info, err := s.google.Profile(ctx, token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		providerID := info.ID
		user = &entity.User{
			FirstName:  info.GivenName,
			LastName:   info.FamilyName,
			Email:      info.Email,
			Provider:   "google",
			ProviderID: &providerID,
		}
		if info.Picture != "" {
			picture := info.Picture
			user.Photo = &picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
