package httpserver

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// CartStore is the cart surface the handlers call.
type CartStore interface {
	Load(ctx context.Context, visitorID string) (*domain.Cart, error)
	Add(ctx context.Context, visitorID, productID string, quantity int, options []domain.SelectedOption, variantID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, visitorID, lineItemID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, visitorID, lineItemID string) (*domain.Cart, error)
}

// CheckoutStarter runs the checkout handshake and yields a redirect URL.
type CheckoutStarter interface {
	Checkout(ctx context.Context, visitorID string) (string, error)
}

// MemberSession is the member/contact surface the handlers call.
type MemberSession interface {
	ExchangeCode(ctx context.Context, visitorID, code string) error
	Logout(ctx context.Context, visitorID string) error
	Profile(ctx context.Context, visitorID string) (*domain.Profile, error)
	Contact(ctx context.Context, visitorID string) (*domain.Contact, error)
	UpdateContact(ctx context.Context, visitorID string, contact domain.Contact) (*domain.Contact, error)
}

// Deps carries service dependencies into the router.
type Deps struct {
	Carts    CartStore
	Checkout CheckoutStarter
	Members  MemberSession
}

// Options carries presentation-level knobs.
type Options struct {
	CORSOrigins  []string
	CookieDomain string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = opts.CORSOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := handlers{deps: deps, logger: logger}

	api := router.Group("/api", visitorCookie(opts.CookieDomain))
	{
		api.GET("/cart", h.getCart)
		api.POST("/cart/line-items", h.addLineItem)
		api.PATCH("/cart/line-items/:lineItemId", h.updateLineItemQuantity)
		api.DELETE("/cart/line-items/:lineItemId", h.removeLineItem)
		api.POST("/checkout", h.startCheckout)

		api.POST("/member/oauth/callback", h.memberCallback)
		api.POST("/member/logout", h.memberLogout)
		api.GET("/member/profile", h.memberProfile)
		api.GET("/member/contact", h.memberContact)
		api.PUT("/member/contact", h.updateMemberContact)
	}

	return router
}
