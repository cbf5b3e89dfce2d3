package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/checkout"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/member"
)

type handlers struct {
	deps   Deps
	logger zerolog.Logger
}

type addLineItemRequest struct {
	ProductID string                  `json:"productId" binding:"required"`
	Quantity  int                     `json:"quantity" binding:"required"`
	VariantID string                  `json:"variantId"`
	Options   []domain.SelectedOption `json:"options"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Carts.Load(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h handlers) addLineItem(c *gin.Context) {
	var req addLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.deps.Carts.Add(c.Request.Context(), visitorID(c), req.ProductID, req.Quantity, req.Options, req.VariantID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h handlers) updateLineItemQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.deps.Carts.UpdateQuantity(c.Request.Context(), visitorID(c), c.Param("lineItemId"), req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h handlers) removeLineItem(c *gin.Context) {
	cart, err := h.deps.Carts.Remove(c.Request.Context(), visitorID(c), c.Param("lineItemId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h handlers) startCheckout(c *gin.Context) {
	redirectURL, err := h.deps.Checkout.Checkout(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL})
}

type memberCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h handlers) memberCallback(c *gin.Context) {
	var req memberCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.deps.Members.ExchangeCode(c.Request.Context(), visitorID(c), req.Code); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h handlers) memberLogout(c *gin.Context) {
	if err := h.deps.Members.Logout(c.Request.Context(), visitorID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h handlers) memberProfile(c *gin.Context) {
	profile, err := h.deps.Members.Profile(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h handlers) memberContact(c *gin.Context) {
	contact, err := h.deps.Members.Contact(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

type updateContactRequest struct {
	ID        string `json:"id" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (h handlers) updateMemberContact(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, err := h.deps.Members.UpdateContact(c.Request.Context(), visitorID(c), domain.Contact{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

func (h handlers) writeError(c *gin.Context, err error) {
	var authErr *domain.AuthError
	var estimateErr *checkout.EstimateError
	var createErr *checkout.CreateError
	var platformErr *domain.PlatformError

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "OUT_OF_STOCK"})
	case errors.Is(err, member.ErrNotLoggedIn), errors.Is(err, domain.ErrUnauthorized), errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoRedirectTarget),
		errors.As(err, &estimateErr),
		errors.As(err, &createErr),
		errors.As(err, &platformErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
