package user

import (
	"context"
	"errors"
	"strings"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/internal/utils/mailing"
	"nutriscan-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.MeResponse, error)
		ResolveUserID(ctx context.Context, identity *jwt.Identity) (string, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

// Login verifies the identity token and upserts the matching user.
// IsNewUser is true while the user has no profile, so clients route to
// onboarding.
func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	identity, err := s.jwtService.VerifyToken(ctx, req.Token)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	user, err := s.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.createUser(ctx, identity)
		if err != nil {
			return domain.LoginResponse{}, err
		}
	case err != nil:
		return domain.LoginResponse{}, err
	default:
		if applyIdentity(user, identity) {
			if err := s.userRepository.UpdateUser(ctx, user); err != nil {
				return domain.LoginResponse{}, err
			}
		}
	}

	hasProfile, err := s.userRepository.HasProfile(ctx, user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		IsNewUser: !hasProfile,
		User:      toUserResponse(user),
	}, nil
}

func (s *userService) createUser(ctx context.Context, identity *jwt.Identity) (*entities.User, error) {
	user := &entities.User{
		FirebaseUID: identity.UID,
		Email:       identity.Email,
		Name:        displayName(identity),
		PictureURL:  identity.Picture,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		// a concurrent first login won the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
		}
		return nil, err
	}

	log.Infow("user created", "user_id", user.ID.String())
	if s.mailer != nil && user.Email != "" {
		go func(email, name string) {
			if err := s.mailer.SendWelcome(email, name); err != nil {
				log.Warnw("failed to send welcome email", "error", err)
			}
		}(user.Email, user.Name)
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.MeResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.MeResponse{}, domain.ErrParseUUID
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.MeResponse{}, err
	}

	hasProfile, err := s.userRepository.HasProfile(ctx, id)
	if err != nil {
		return domain.MeResponse{}, err
	}

	res := toUserResponse(user)
	res.FirebaseUID = ""
	return domain.MeResponse{User: res, HasProfile: hasProfile}, nil
}

func (s *userService) ResolveUserID(ctx context.Context, identity *jwt.Identity) (string, error) {
	user, err := s.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	if err != nil {
		return "", err
	}
	return user.ID.String(), nil
}

// applyIdentity copies changed identity fields onto user. Empty names and
// pictures never overwrite stored ones.
func applyIdentity(user *entities.User, identity *jwt.Identity) bool {
	changed := false
	if identity.Email != "" && user.Email != identity.Email {
		user.Email = identity.Email
		changed = true
	}
	if identity.Name != "" && user.Name != identity.Name {
		user.Name = identity.Name
		changed = true
	}
	if identity.Picture != "" && user.PictureURL != identity.Picture {
		user.PictureURL = identity.Picture
		changed = true
	}
	return changed
}

func displayName(identity *jwt.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	local, _, _ := strings.Cut(identity.Email, "@")
	return local
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:          user.ID.String(),
		FirebaseUID: user.FirebaseUID,
		Email:       user.Email,
		Name:        user.Name,
		PictureURL:  user.PictureURL,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
