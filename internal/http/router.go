package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/ratelimit"
)

type RouterConfig struct {
	SessionSecret  string
	AdminAPIToken  string
	RequestTimeout time.Duration
	ListingLimiter *ratelimit.Limiter
}

type Handlers struct {
	Products *ProductsHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Webhook  *WebhookHandler
}

func NewRouter(cfg RouterConfig, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionAuthMiddleware(cfg.SessionSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.ListingLimiter))
			r.Get("/products", h.Products.List)
		})
		r.Get("/products/{product_id}", h.Products.Get)

		r.Post("/cart/validate", h.Cart.Validate)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.Wishlist.Get)
				r.Post("/", h.Wishlist.Add)
				r.Delete("/{product_id}", h.Wishlist.Remove)
			})
			r.Get("/orders", h.Orders.List)
			r.Get("/orders/{order_id}", h.Orders.Get)
		})

		// guest checkout is allowed on these two
		r.Post("/checkout/payment-intent", h.Checkout.CreatePaymentIntent)
		r.Post("/orders", h.Orders.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIToken))
			r.Get("/orders", h.Orders.AdminList)
			r.Patch("/orders/{order_id}", h.Orders.AdminUpdate)
			r.Get("/products", h.Products.AdminList)
			r.Post("/products", h.Products.AdminCreate)
			r.Put("/products/{product_id}", h.Products.AdminUpdate)
		})

		r.Post("/webhooks/payment", h.Webhook.HandlePaymentEvent)
	})

	return r
}
