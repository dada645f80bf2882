package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
)

type cartItemResponse struct {
	VariantID     int64           `json:"variant_id"`
	Title         string          `json:"title,omitempty"`
	SKU           string          `json:"sku,omitempty"`
	Qty           int             `json:"qty"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	ID           int64              `json:"id"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	VATAmount    decimal.Decimal    `json:"vat_amount"`
	ShippingCost decimal.Decimal    `json:"shipping_cost"`
	Total        decimal.Decimal    `json:"total"`
	Items        []cartItemResponse `json:"items"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		entry := cartItemResponse{
			VariantID:     item.VariantID,
			Qty:           item.Qty,
			PriceSnapshot: item.PriceSnapshot,
			LineTotal:     item.LineTotal(),
		}
		if item.Variant != nil {
			entry.Title = item.Variant.Title
			entry.SKU = item.Variant.SKU
		}
		items = append(items, entry)
	}
	return cartResponse{
		ID:           cart.ID,
		Subtotal:     cart.Subtotal,
		VATAmount:    cart.VATAmount,
		ShippingCost: cart.ShippingCost,
		Total:        cart.Total,
		Items:        items,
		UpdatedAt:    cart.UpdatedAt,
	}
}

type orderItemResponse struct {
	VariantID     int64           `json:"variant_id"`
	TitleSnapshot string          `json:"title"`
	Qty           int             `json:"qty"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	ID                int64               `json:"id"`
	Number            string              `json:"number"`
	Email             string              `json:"email"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"payment_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	Tax               decimal.Decimal     `json:"tax"`
	Shipping          decimal.Decimal     `json:"shipping"`
	Total             decimal.Decimal     `json:"total"`
	TrackingURL       *string             `json:"tracking_url,omitempty"`
	Items             []orderItemResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			VariantID:     item.VariantID,
			TitleSnapshot: item.TitleSnapshot,
			Qty:           item.Qty,
			PriceSnapshot: item.PriceSnapshot,
			LineTotal:     item.LineTotal(),
		})
	}
	return orderResponse{
		ID:                order.ID,
		Number:            order.Number,
		Email:             order.Email,
		Status:            string(order.Status),
		PaymentStatus:     string(order.PaymentStatus),
		FulfillmentStatus: string(order.FulfillmentStatus),
		Subtotal:          order.Subtotal,
		Tax:               order.Tax,
		Shipping:          order.Shipping,
		Total:             order.Total,
		TrackingURL:       order.TrackingURL,
		Items:             items,
		CreatedAt:         order.CreatedAt,
	}
}
