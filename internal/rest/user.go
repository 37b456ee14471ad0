package rest

import (
	"agriVest/business/user"
	"agriVest/domain"
	"agriVest/internal/middleware"
	"agriVest/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, domain.User, error)
	Logout(ctx context.Context, userID uint) error
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	UpdateUserFlags(ctx context.Context, id uint, patch domain.UserFlagsPatch) (domain.User, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=15"`
	Role      string `json:"role" validate:"required,oneof=investor farmer"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserFlagsRequest struct {
	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`
	IsStaff    *bool `json:"is_staff"`
}

// UserResponse is the read-only profile view.
type UserResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
}

func newAdminUserResponse(u domain.User) AdminUserResponse {
	return AdminUserResponse{
		UserResponse: newUserResponse(u),
		IsVerified:   u.IsVerified,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		CreatedAt:    u.CreatedAt,
	}
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}

// AdminUserResponse adds the account flags shown in the staff listing.
type AdminUserResponse struct {
	UserResponse
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validation user register", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newUser, err := h.userService.Register(ctx, user.RegisterInput{
		Username:  reqUser.Username,
		Email:     reqUser.Email,
		Phone:     reqUser.Phone,
		Role:      reqUser.Role,
		Password:  reqUser.Password,
		Password2: reqUser.Password2,
	})
	if err != nil {
		logger.Error("Failed to register user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Congratulations %s, your account has been created successfully!", newUser.Username),
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validate user login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, loggedIn, err := h.userService.Login(ctx, reqUser.Username, reqUser.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error": "Invalid credentials",
			})
		}
		logger.Error("Failed to login with user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Login successful - welcome to AgricVest %s", loggedIn.Username),
		"token":   token,
	})
}

// Logout handles user logout by revoking the token
func (h *UserHandler) Logout(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, caller.ID); err != nil {
		logger.Error("Failed to logout user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (h *UserHandler) Me(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUserByID(ctx, caller.ID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(u))
}

// ListUsers is the staff user listing: ?role=&is_verified=&is_staff=&search=
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := domain.UserFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	}

	var err error
	if filter.IsVerified, err = parseOptionalBool(c, "is_verified"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid is_verified"})
	}
	if filter.IsStaff, err = parseOptionalBool(c, "is_staff"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid is_staff"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.ListUsers(ctx, filter)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return errorResponse(c, err)
	}

	resp := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newAdminUserResponse(u))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Users retrieved successfully",
		"users":   resp,
	})
}

// UpdateUserFlags is the staff edit of is_active, is_verified and is_staff.
func (h *UserHandler) UpdateUserFlags(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user ID"})
	}

	var req UserFlagsRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.userService.UpdateUserFlags(ctx, id, domain.UserFlagsPatch{
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
		IsStaff:    req.IsStaff,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    newAdminUserResponse(updated),
	})
}
