package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
)

// UserService handles user administration
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateUser creates a new user within a tenant
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	var user *identity.User
	if input.Activate {
		user, err = identity.NewActiveUser(input.TenantID, input.Username, input.Password)
	} else {
		user, err = identity.NewUser(input.TenantID, input.Username, input.Password)
	}
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if input.FirstName != "" || input.LastName != "" {
		if err := user.SetName(input.FirstName, input.LastName); err != nil {
			return nil, err
		}
	}
	if len(input.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, input.TenantID, input.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(input.RoleIDs); err != nil {
			return nil, err
		}
	}
	user.CreatedBy = input.CreatedBy

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return toUserDTO(user), nil
}

// GetUser fetches a user by ID within a tenant
func (s *UserService) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// ListUsers lists a tenant's users with pagination
func (s *UserService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = *toUserDTO(&users[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateUser updates a user's profile and role assignments. The update is
// guarded by the aggregate version to detect concurrent edits.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	expectedVersion := input.Version

	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.FirstName != nil || input.LastName != nil {
		first := user.FirstName
		last := user.LastName
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if err := user.SetName(first, last); err != nil {
			return nil, err
		}
	}
	if input.RoleIDs != nil {
		if err := s.verifyRolesExist(ctx, input.TenantID, input.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(input.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.SaveWithLock(ctx, user, expectedVersion); err != nil {
		return nil, err
	}

	return toUserDTO(user), nil
}

// ActivateUser activates a pending or deactivated user
func (s *UserService) ActivateUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error { return u.Activate() })
}

// DeactivateUser deactivates a user, blocking future logins
func (s *UserService) DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error { return u.Deactivate() })
}

// UnlockUser clears a lockout before it expires
func (s *UserService) UnlockUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error { return u.Unlock() })
}

// ResetPassword sets a new password and forces a change on next login
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, newPassword string) error {
	return s.mutate(ctx, tenantID, userID, func(u *identity.User) error {
		if err := u.SetPassword(newPassword); err != nil {
			return err
		}
		u.ForcePasswordChange()
		return nil
	})
}

// DeleteUser removes a user. The identity of past actions is preserved in
// the audit trail, which stores IDs, not foreign keys to users.
func (s *UserService) DeleteUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

func (s *UserService) mutate(ctx context.Context, tenantID, userID uuid.UUID, fn func(*identity.User) error) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := fn(user); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

func (s *UserService) verifyRolesExist(ctx context.Context, tenantID uuid.UUID, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, tenantID, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return shared.NewDomainError("INVALID_ROLE", "One or more roles do not exist")
	}
	return nil
}
