package handlers

import (
	"errors"
	"net/http"

	"github.com/OliveroJ16/inventory-system-api/middleware/jwt"
	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(userService *users.Service) *UserHandler {
	return &UserHandler{users: userService}
}

func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.FindByID(jwt.GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c echo.Context) error {
	page, err := h.users.List(pagination.FromContext(c, "created_at desc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list users")
	}
	return c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Surname  *string `json:"surname" validate:"omitempty,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := users.UserPatch{
		UserName: req.UserName,
		Name:     req.Name,
		Surname:  req.Surname,
	}
	if req.Role != nil {
		role := users.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.users.Update(id, patch)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}
