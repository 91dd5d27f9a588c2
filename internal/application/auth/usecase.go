package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/validation"
	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
	"github.com/jhoicas/funko-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

const invalidCredentials = "Usuario o contraseña incorrectos"

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser valida, hashea la contraseña con bcrypt y crea el usuario con rol USER.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}

	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Usuario", in.Username)
	}
	existing, err = uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Usuario", in.Email)
	}

	user, err := NewUser(in.Username, in.Email, in.Password, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Usuario", in.Username)
		}
		return nil, err
	}
	return &dto.RegisterResponse{
		Message: "Usuario registrado correctamente",
		User:    *toUserResponse(user),
	}, nil
}

// Login verifica usuario/contraseña y genera el JWT con el rol.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.BusinessRule(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.BusinessRule(invalidCredentials)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token}, nil
}

// NewUser construye un usuario con la contraseña hasheada (también lo usa el seeder).
func NewUser(username, email, password, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
