package handler

import (
	"time"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MediaRoute is where product pictures are served from.
const MediaRoute = "/media/"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toPage[E, R any](page *entity.Page[E], convert func(E) R) response.Page[R] {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}

	return response.Page[R]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
	}
}

func toSlice[E, R any](items []E, convert func(E) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}

	return out
}

type customerResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Address      string     `json:"address,omitempty"`
	Role         string     `json:"role"`
	IsFirstLogin bool       `json:"is_first_login"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toCustomerResponse(customer *entity.Customer) customerResponse {
	return customerResponse{
		ID:           customer.ID,
		Email:        customer.Email,
		Username:     customer.Username,
		PhoneNumber:  customer.PhoneNumber,
		Address:      customer.Address,
		Role:         customer.Role.String(),
		IsFirstLogin: customer.IsFirstLogin,
		LastLoginAt:  customer.LastLoginAt,
		CreatedAt:    customer.CreatedAt,
	}
}

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toSessionResponse(token *entity.RefreshToken) sessionResponse {
	return sessionResponse{ID: token.ID, CreatedAt: token.CreatedAt, ExpiresAt: token.ExpiresAt}
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryResponse(category *entity.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

type productResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CurrentPrice  string    `json:"current_price"`
	PreviousPrice string    `json:"previous_price"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	FlashSale     bool      `json:"flash_sale"`
	PictureURL    string    `json:"picture_url,omitempty"`
	CategoryID    uuid.UUID `json:"category_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func toProductResponse(product *entity.Product) productResponse {
	resp := productResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		CurrentPrice:  money(product.CurrentPrice),
		PreviousPrice: money(product.PreviousPrice),
		StockQuantity: product.StockQuantity,
		InStock:       product.InStock,
		FlashSale:     product.FlashSale,
		CategoryID:    product.CategoryID,
		CreatedAt:     product.CreatedAt,
	}
	if product.PictureKey != "" {
		resp.PictureURL = MediaRoute + product.PictureKey
	}

	return resp
}

type cartLineResponse struct {
	ID         uuid.UUID        `json:"id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Product    *productResponse `json:"product,omitempty"`
	Quantity   int              `json:"quantity"`
	TotalPrice string           `json:"total_price"`
}

func toCartLineResponse(line *entity.CartLine) cartLineResponse {
	resp := cartLineResponse{
		ID:         line.ID,
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
		TotalPrice: money(line.TotalPrice),
	}
	if line.Product != nil {
		product := toProductResponse(line.Product)
		resp.Product = &product
	}

	return resp
}

type cartResponse struct {
	Lines       []cartLineResponse `json:"lines"`
	Subtotal    string             `json:"subtotal"`
	ShippingFee string             `json:"shipping_fee"`
	Total       string             `json:"total"`
}

func toCartResponse(cart *entity.Cart) cartResponse {
	return cartResponse{
		Lines:       toSlice(cart.Lines, toCartLineResponse),
		Subtotal:    money(cart.Subtotal),
		ShippingFee: money(cart.ShippingFee),
		Total:       money(cart.Total),
	}
}

type orderItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       string    `json:"price"`
	LineTotal   string    `json:"line_total"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Status          string              `json:"status"`
	Total           string              `json:"total"`
	ShippingFee     string              `json:"shipping_fee"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toOrderResponse(order *entity.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       money(item.Price),
			LineTotal:   money(item.LineTotal()),
		})
	}

	return orderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          string(order.Status),
		Total:           money(order.Total),
		ShippingFee:     money(order.ShippingFee),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		PaymentStatus:   string(order.PaymentStatus),
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

type shortfallResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

func toShortfallResponse(shortfall usecase.StockShortfall) shortfallResponse {
	return shortfallResponse{
		ProductID:   shortfall.ProductID,
		ProductName: shortfall.ProductName,
		Requested:   shortfall.Requested,
		Available:   shortfall.Available,
	}
}

type addressResponse struct {
	ID            uuid.UUID `json:"id"`
	RecipientName string    `json:"recipient_name"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	Region        string    `json:"region,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IsPrimary     bool      `json:"is_primary"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAddressResponse(address *entity.ShippingAddress) addressResponse {
	return addressResponse{
		ID:            address.ID,
		RecipientName: address.RecipientName,
		Street:        address.Street,
		City:          address.City,
		Region:        address.Region,
		PostalCode:    address.PostalCode,
		Phone:         address.Phone,
		IsPrimary:     address.IsPrimary,
		CreatedAt:     address.CreatedAt,
	}
}

type wishlistItemResponse struct {
	ID        uuid.UUID        `json:"id"`
	ProductID uuid.UUID        `json:"product_id"`
	Product   *productResponse `json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func toWishlistItemResponse(item *entity.WishlistItem) wishlistItemResponse {
	resp := wishlistItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
	if item.Product != nil {
		product := toProductResponse(item.Product)
		resp.Product = &product
	}

	return resp
}

type dashboardResponse struct {
	Customers     int64           `json:"customers"`
	Products      int64           `json:"products"`
	Orders        int64           `json:"orders"`
	PendingOrders int64           `json:"pending_orders"`
	RecentOrders  []orderResponse `json:"recent_orders"`
}

func toDashboardResponse(stats *entity.DashboardStats) dashboardResponse {
	return dashboardResponse{
		Customers:     stats.Customers,
		Products:      stats.Products,
		Orders:        stats.Orders,
		PendingOrders: stats.PendingOrders,
		RecentOrders:  toSlice(stats.RecentOrders, toOrderResponse),
	}
}
