package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Sucursales ────────────────────────────────────────────────────────────────

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// UpdateBranchRequest body para PUT /api/branches/{id} (campos opcionales).
type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchListResponse listado paginado.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ── Menú ──────────────────────────────────────────────────────────────────────

// CreateMenuItemRequest body para POST /api/menu.
type CreateMenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateMenuItemRequest body para PUT /api/menu/{id} (campos opcionales).
type UpdateMenuItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Available   *bool            `json:"available,omitempty"`
}

// MenuItemResponse ítem del menú en respuestas.
type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MenuItemListResponse listado paginado.
type MenuItemListResponse struct {
	Items []MenuItemResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Repartidores ──────────────────────────────────────────────────────────────

// CreateRiderRequest body para POST /api/riders.
type CreateRiderRequest struct {
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateRiderRequest body para PUT /api/riders/{id} (campos opcionales).
type UpdateRiderRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}

// RiderResponse repartidor en respuestas.
type RiderResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RiderListResponse listado paginado.
type RiderListResponse struct {
	Items []RiderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
