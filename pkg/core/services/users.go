package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// passwordHashCost is the bcrypt cost of stored passwords
var passwordHashCost = bcrypt.DefaultCost

// UserStore defines the database operations needed to manage accounts
type UserStore interface {
	db.Transactor
	ListUsers(ctx context.Context, q db.UserQuery) ([]db.Account, int, error)
	GetUserDetail(ctx context.Context, id string) (*db.UserDetail, error)
}

// ListUsersParams filters and pages the account list
type ListUsersParams struct {
	Search   string
	UserType string
	Status   string
	Page     int
	Limit    int
}

// UserPage is one page of accounts
type UserPage struct {
	Users      []db.Account `json:"users"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// ListUsers returns one page of accounts, newest first
func ListUsers(ctx context.Context, store UserStore, cfg *config.Config, logger *zap.Logger, params ListUsersParams) (*UserPage, error) {
	if params.UserType != "" && !model.IsUserType(params.UserType) {
		return nil, model.Validationf("invalid user type %q", params.UserType)
	}
	if params.Status != "" && !model.IsAccountStatus(params.Status) {
		return nil, model.Validationf("invalid account status %q", params.Status)
	}

	page, limit, err := resolvePaging(params.Page, params.Limit, cfg.Reviews.DefaultPageSize, cfg.Reviews.MaxPageSize)
	if err != nil {
		return nil, err
	}

	users, total, err := store.ListUsers(ctx, db.UserQuery{
		Search:   params.Search,
		UserType: params.UserType,
		Status:   params.Status,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []db.Account{}
	}

	logger.Debug("Listed users", zap.Int("total", total), zap.Int("page", page))

	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: model.TotalPages(total, limit),
	}, nil
}

// GetUser returns an account with the volunteer profile or organization it owns
func GetUser(ctx context.Context, store UserStore, logger *zap.Logger, id string) (*db.UserDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.Validationf("user id is required")
	}

	detail, err := store.GetUserDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if detail == nil {
		return nil, model.NotFoundf("user %s", id)
	}
	return detail, nil
}

// CreateUserRequest is an account created by an administrator. RealName gives a
// volunteer account its profile; OrganizationName gives an organization admin
// account its organization.
type CreateUserRequest struct {
	Username         string `json:"username" validate:"required,max=50"`
	Email            string `json:"email" validate:"required,email"`
	PhoneNumber      string `json:"phone_number" validate:"required,max=20"`
	Password         string `json:"password" validate:"required,min=6"`
	UserType         string `json:"user_type" validate:"required,oneof=volunteer organization_admin platform_admin"`
	RealName         string `json:"real_name" validate:"max=100"`
	OrganizationName string `json:"organization_name" validate:"max=200"`
}

// CreateUser creates an active account and, when requested, the pending volunteer
// profile or organization it owns. Usernames, emails and phone numbers are unique.
func CreateUser(ctx context.Context, store UserStore, logger *zap.Logger, req CreateUserRequest) (*db.UserDetail, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.RealName = strings.TrimSpace(req.RealName)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	detail := &db.UserDetail{Account: db.Account{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		UserType:     req.UserType,
		Status:       model.AccountActive,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}}

	if req.UserType == model.UserTypeVolunteer && req.RealName != "" {
		detail.Volunteer = &db.Volunteer{
			ID:                 uuid.New().String(),
			UserID:             detail.ID,
			RealName:           req.RealName,
			Skills:             "[]",
			Interests:          "[]",
			VerificationStatus: model.VolunteerPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}
	if req.UserType == model.UserTypeOrganizationAdmin && req.OrganizationName != "" {
		contact := req.RealName
		if contact == "" {
			contact = req.Username
		}
		detail.Organization = &db.Organization{
			ID:                      uuid.New().String(),
			UserID:                  detail.ID,
			Name:                    req.OrganizationName,
			UnifiedSocialCreditCode: placeholderCreditCode(),
			ContactPerson:           contact,
			ContactPhone:            req.PhoneNumber,
			ContactEmail:            req.Email,
			Status:                  model.OrganizationPendingReview,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
	}

	err = store.InTx(ctx, func(tx db.Tx) error {
		field, err := tx.FindAccountConflict(ctx, req.Username, req.Email, req.PhoneNumber, "")
		if err != nil {
			return err
		}
		if field != "" {
			return model.Conflictf("%s is already in use", field)
		}

		if err := tx.InsertAccount(ctx, &detail.Account); err != nil {
			return err
		}
		if detail.Volunteer != nil {
			if err := tx.InsertVolunteer(ctx, detail.Volunteer); err != nil {
				return err
			}
		}
		if detail.Organization != nil {
			if err := tx.InsertOrganization(ctx, detail.Organization); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User created",
		zap.String("id", detail.ID),
		zap.String("username", detail.Username),
		zap.String("user_type", detail.UserType))
	return detail, nil
}

// placeholderCreditCode stands in for the credit code of an organization created
// with its admin account until the organization supplies the real one
func placeholderCreditCode() string {
	return "TEMP-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
}

// UpdateUserRequest changes an account. Nil fields are left as they are.
// RealName and VerificationStatus apply to volunteer accounts, OrganizationName
// to organization admin accounts.
type UpdateUserRequest struct {
	Username           *string `json:"username" validate:"omitempty,max=50"`
	Email              *string `json:"email" validate:"omitempty,email"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,max=20"`
	Status             *string `json:"status"`
	RealName           *string `json:"real_name" validate:"omitempty,max=100"`
	VerificationStatus *string `json:"verification_status"`
	OrganizationName   *string `json:"organization_name" validate:"omitempty,max=200"`
}

func (r *UpdateUserRequest) empty() bool {
	return r.Username == nil && r.Email == nil && r.PhoneNumber == nil && r.Status == nil &&
		r.RealName == nil && r.VerificationStatus == nil && r.OrganizationName == nil
}

// normalize trims the provided fields and rejects blank ones
func (r *UpdateUserRequest) normalize() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"username", r.Username},
		{"email", r.Email},
		{"phone_number", r.PhoneNumber},
		{"status", r.Status},
		{"real_name", r.RealName},
		{"verification_status", r.VerificationStatus},
		{"organization_name", r.OrganizationName},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return model.Validationf("%s cannot be empty", f.name)
		}
	}

	if r.Status != nil && !model.IsAccountStatus(*r.Status) {
		return model.Validationf("invalid account status %q", *r.Status)
	}
	if r.VerificationStatus != nil && !model.IsVolunteerStatus(*r.VerificationStatus) {
		return model.Validationf("invalid verification status %q", *r.VerificationStatus)
	}
	return validateRequest(r)
}

// UpdateUser applies an account update and returns the updated account
func UpdateUser(ctx context.Context, store UserStore, logger *zap.Logger, id string, req UpdateUserRequest) (*db.UserDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.Validationf("user id is required")
	}
	if req.empty() {
		return nil, model.Validationf("no fields to update")
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	err := store.InTx(ctx, func(tx db.Tx) error {
		account, err := tx.LockAccount(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return model.NotFoundf("user %s", id)
		}

		field, err := tx.FindAccountConflict(ctx, deref(req.Username), deref(req.Email), deref(req.PhoneNumber), id)
		if err != nil {
			return err
		}
		if field != "" {
			return model.Conflictf("%s is already in use", field)
		}

		if _, err := tx.UpdateAccount(ctx, id, db.AccountUpdate{
			Username:    req.Username,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Status:      req.Status,
		}); err != nil {
			return err
		}

		if account.UserType == model.UserTypeVolunteer && (req.RealName != nil || req.VerificationStatus != nil) {
			if err := tx.UpdateOwnedVolunteer(ctx, id, db.OwnedVolunteerUpdate{
				RealName:           req.RealName,
				VerificationStatus: req.VerificationStatus,
			}); err != nil {
				return err
			}
		}
		if account.UserType == model.UserTypeOrganizationAdmin && req.OrganizationName != nil {
			if err := tx.RenameOwnedOrganization(ctx, id, *req.OrganizationName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User updated", zap.String("id", id))
	return GetUser(ctx, store, logger, id)
}

// DeleteUser removes an account
func DeleteUser(ctx context.Context, store db.Transactor, logger *zap.Logger, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.Validationf("user id is required")
	}

	err := store.InTx(ctx, func(tx db.Tx) error {
		account, err := tx.LockAccount(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return model.NotFoundf("user %s", id)
		}
		return tx.DeleteAccount(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("User deleted", zap.String("id", id))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
