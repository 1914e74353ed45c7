package router

import (
	"net/http"
	"strings"

	"shopkart/internal/handler"
	"shopkart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	addressHandler *handler.AddressHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no identity required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes: search on the collection, by-ID plus update/delete below it.
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/products" || r.URL.Path == "/api/products/" {
			if r.Method == http.MethodGet {
				productHandler.Search(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		switch r.Method {
		case http.MethodGet:
			productHandler.GetByID(w, r)
		case http.MethodPut:
			productHandler.Update(w, r)
		case http.MethodDelete:
			productHandler.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Category routes: create on the collection, per-category product
	// listing/creation below it.
	categoryRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/categories" || r.URL.Path == "/api/categories/" {
			if r.Method == http.MethodPost {
				productHandler.CreateCategory(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if strings.HasSuffix(r.URL.Path, "/products") {
			switch r.Method {
			case http.MethodGet:
				productHandler.GetByCategory(w, r)
			case http.MethodPost:
				productHandler.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/categories", categoryRouteHandler)
	mux.HandleFunc("/api/categories/", categoryRouteHandler)

	// Cart routes: the caller's own cart and its line items.
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/" {
			if r.Method == http.MethodGet {
				cartHandler.Get(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/" {
			if r.Method == http.MethodPost {
				cartHandler.AddItem(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/cart/items/") && r.Method == http.MethodPut {
			cartHandler.AdjustItem(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Admin-facing cart routes: listing all carts and removing a line from a
	// specific cart.
	cartsRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/carts" || r.URL.Path == "/api/carts/" {
			if r.Method == http.MethodGet {
				cartHandler.GetAll(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if r.Method == http.MethodDelete {
			cartHandler.RemoveItem(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/carts", cartsRouteHandler)
	mux.HandleFunc("/api/carts/", cartsRouteHandler)

	// Order routes.
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			orderHandler.Place(w, r)
			return
		}

		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Address routes.
	addressRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/addresses" || r.URL.Path == "/api/addresses/") {
			addressHandler.Create(w, r)
			return
		}

		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/addresses/") && r.URL.Path != "/api/addresses/" {
			addressHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/addresses", addressRouteHandler)
	mux.HandleFunc("/api/addresses/", addressRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Identity
	var h http.Handler = mux
	h = middleware.Identity(logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
