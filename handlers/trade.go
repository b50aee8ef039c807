package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/OliveroJ16/inventory-system-api/middleware/jwt"
	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/OliveroJ16/inventory-system-api/services/trade"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TradeHandler struct {
	trade *trade.Service
}

func NewTradeHandler(tradeService *trade.Service) *TradeHandler {
	return &TradeHandler{trade: tradeService}
}

type orderLineRequest struct {
	ArticleID uuid.UUID `json:"article_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type createSaleRequest struct {
	CustomerID *uuid.UUID         `json:"customer_id"`
	Lines      []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *TradeHandler) CreateSale(c echo.Context) error {
	var req createSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lines := make([]trade.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, trade.OrderLine{ArticleID: line.ArticleID, Quantity: line.Quantity})
	}

	sale, err := h.trade.RegisterSale(trade.SaleInput{
		UserID:     jwt.GetUserID(c),
		CustomerID: req.CustomerID,
		Lines:      lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInsufficientStock):
			return fail(c, http.StatusConflict, "Insufficient stock")
		case errors.Is(err, catalog.ErrArticleNotFound):
			return fail(c, http.StatusNotFound, "Article not found")
		case errors.Is(err, partners.ErrCustomerNotFound):
			return fail(c, http.StatusNotFound, "Customer not found")
		case errors.Is(err, users.ErrUserNotFound):
			return fail(c, http.StatusUnauthorized, "Account no longer exists")
		case errors.Is(err, trade.ErrEmptyOrder), errors.Is(err, trade.ErrInvalidQuantity):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "Failed to register sale")
		}
	}
	return c.JSON(http.StatusCreated, sale)
}

func (h *TradeHandler) GetSale(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	sale, err := h.trade.FindSale(id)
	if err != nil {
		if errors.Is(err, trade.ErrSaleNotFound) {
			return fail(c, http.StatusNotFound, "Sale not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load sale")
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *TradeHandler) ListSales(c echo.Context) error {
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.trade.ListSales(filter, pagination.FromContext(c, "created_at desc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list sales")
	}
	return c.JSON(http.StatusOK, page)
}

type paymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"max=50"`
}

func (h *TradeHandler) AddSalePayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sale, err := h.trade.AddSalePayment(id, req.Amount, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, trade.ErrSaleNotFound):
			return fail(c, http.StatusNotFound, "Sale not found")
		case errors.Is(err, trade.ErrInvalidAmount):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "Failed to record payment")
		}
	}
	return c.JSON(http.StatusOK, sale)
}

type createPurchaseRequest struct {
	SupplierID uuid.UUID          `json:"supplier_id" validate:"required"`
	Lines      []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *TradeHandler) CreatePurchase(c echo.Context) error {
	var req createPurchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lines := make([]trade.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, trade.OrderLine{ArticleID: line.ArticleID, Quantity: line.Quantity})
	}

	purchase, err := h.trade.RegisterPurchase(trade.PurchaseInput{
		UserID:     jwt.GetUserID(c),
		SupplierID: req.SupplierID,
		Lines:      lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrArticleNotFound):
			return fail(c, http.StatusNotFound, "Article not found")
		case errors.Is(err, partners.ErrSupplierNotFound):
			return fail(c, http.StatusNotFound, "Supplier not found")
		case errors.Is(err, users.ErrUserNotFound):
			return fail(c, http.StatusUnauthorized, "Account no longer exists")
		case errors.Is(err, trade.ErrEmptyOrder), errors.Is(err, trade.ErrInvalidQuantity):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "Failed to register purchase")
		}
	}
	return c.JSON(http.StatusCreated, purchase)
}

func (h *TradeHandler) GetPurchase(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	purchase, err := h.trade.FindPurchase(id)
	if err != nil {
		if errors.Is(err, trade.ErrPurchaseNotFound) {
			return fail(c, http.StatusNotFound, "Purchase not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load purchase")
	}
	return c.JSON(http.StatusOK, purchase)
}

func (h *TradeHandler) ListPurchases(c echo.Context) error {
	filter, err := purchaseFilterFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.trade.ListPurchases(filter, pagination.FromContext(c, "created_at desc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list purchases")
	}
	return c.JSON(http.StatusOK, page)
}

func (h *TradeHandler) AddPurchasePayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	purchase, err := h.trade.AddPurchasePayment(id, req.Amount, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, trade.ErrPurchaseNotFound):
			return fail(c, http.StatusNotFound, "Purchase not found")
		case errors.Is(err, trade.ErrInvalidAmount):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "Failed to record payment")
		}
	}
	return c.JSON(http.StatusOK, purchase)
}

func saleFilterFromQuery(c echo.Context) (trade.SaleFilter, error) {
	var filter trade.SaleFilter

	if raw := c.QueryParam("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid customer_id")
		}
		filter.CustomerID = &id
	}

	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to
	return filter, nil
}

func purchaseFilterFromQuery(c echo.Context) (trade.PurchaseFilter, error) {
	var filter trade.PurchaseFilter

	if raw := c.QueryParam("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier_id")
		}
		filter.SupplierID = &id
	}

	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to
	return filter, nil
}

func dateRangeFromQuery(c echo.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid from date, expected RFC3339")
		}
		from = &parsed
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid to date, expected RFC3339")
		}
		to = &parsed
	}
	return from, to, nil
}
