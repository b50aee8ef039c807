package handlers

import (
	"errors"
	"net/http"

	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/labstack/echo/v4"
)

type PartnerHandler struct {
	partners *partners.Service
}

func NewPartnerHandler(partnerService *partners.Service) *PartnerHandler {
	return &PartnerHandler{partners: partnerService}
}

type createCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Surname string `json:"surname" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=200"`
}

func (h *PartnerHandler) CreateCustomer(c echo.Context) error {
	var req createCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer := &partners.Customer{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.partners.CreateCustomer(customer); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create customer")
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *PartnerHandler) GetCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	customer, err := h.partners.FindCustomer(id)
	if err != nil {
		if errors.Is(err, partners.ErrCustomerNotFound) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load customer")
	}
	return c.JSON(http.StatusOK, customer)
}

type updateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Surname *string `json:"surname" validate:"omitempty,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=200"`
}

func (h *PartnerHandler) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.partners.UpdateCustomer(id, partners.CustomerPatch{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, partners.ErrCustomerNotFound) {
			return fail(c, http.StatusNotFound, "Customer not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *PartnerHandler) ListCustomers(c echo.Context) error {
	page, err := h.partners.ListCustomers(c.QueryParam("name"), pagination.FromContext(c, "name asc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list customers")
	}
	return c.JSON(http.StatusOK, page)
}

type createSupplierRequest struct {
	FullName string `json:"full_name" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=30"`
	Address  string `json:"address" validate:"max=200"`
}

func (h *PartnerHandler) CreateSupplier(c echo.Context) error {
	var req createSupplierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	supplier := &partners.Supplier{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := h.partners.CreateSupplier(supplier); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create supplier")
	}
	return c.JSON(http.StatusCreated, supplier)
}

func (h *PartnerHandler) GetSupplier(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	supplier, err := h.partners.FindSupplier(id)
	if err != nil {
		if errors.Is(err, partners.ErrSupplierNotFound) {
			return fail(c, http.StatusNotFound, "Supplier not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

type updateSupplierRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Address  *string `json:"address" validate:"omitempty,max=200"`
}

func (h *PartnerHandler) UpdateSupplier(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateSupplierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	supplier, err := h.partners.UpdateSupplier(id, partners.SupplierPatch{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, partners.ErrSupplierNotFound) {
			return fail(c, http.StatusNotFound, "Supplier not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *PartnerHandler) ListSuppliers(c echo.Context) error {
	page, err := h.partners.ListSuppliers(pagination.FromContext(c, "full_name asc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list suppliers")
	}
	return c.JSON(http.StatusOK, page)
}
