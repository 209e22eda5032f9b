package usecase

import (
	"context"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type RegisterInput struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

type UpdateProfileInput struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

// Register creates the profile document for an already-authenticated uid.
// Credential issuance itself belongs to the auth collaborator.
func (uc *UserUseCase) Register(ctx context.Context, uid string, input RegisterInput) (*entity.User, error) {
	if input.Nickname == "" {
		return nil, errors.BadRequest("Nickname is required", nil)
	}

	if existing, err := uc.userRepo.GetByID(ctx, uid); err == nil && existing != nil {
		return nil, errors.Conflict("Profile already exists")
	} else if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	user := &entity.User{
		ID:       uid,
		Nickname: input.Nickname,
		Avatar:   input.Avatar,
		Gender:   input.Gender,
		Location: input.Location,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Nickname != "" {
		user.Nickname = input.Nickname
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.Location != "" {
		user.Location = input.Location
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
