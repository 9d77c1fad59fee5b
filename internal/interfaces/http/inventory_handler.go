package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de inventario: registros,
// movimientos y proyecciones (protegido).
type InventoryHandler struct {
	records   *inventory.RecordUseCase
	engine    *inventory.StockMovementEngine
	projector *inventory.Projector
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(records *inventory.RecordUseCase, engine *inventory.StockMovementEngine, projector *inventory.Projector) *InventoryHandler {
	return &InventoryHandler{records: records, engine: engine, projector: projector}
}

// CreateRecord godoc
// @Summary      Crear registro de inventario
// @Description  Crea (o devuelve, si ya existe) el registro del par (item_id, branch_id) con cantidad 0.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecordRequest  true  "item_id, branch_id, umbrales, unit, cost_per_unit"
// @Success      201   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/records [post]
func (h *InventoryHandler) CreateRecord(c *fiber.Ctx) error {
	var in dto.CreateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.records.GetOrCreate(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem o sucursal no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetRecord godoc
// @Summary      Obtener registro por ítem y sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  true   "Ítem del menú"
// @Param        branch_id  query  string  false  "Sucursal; por defecto la del token"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/lookup [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if itemID == "" || branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id y branch_id son requeridos"})
	}
	out, err := h.records.Get(c.Context(), itemID, branchID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListRecords godoc
// @Summary      Listar registros de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal; por defecto la del token"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/records [get]
func (h *InventoryHandler) ListRecords(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.records.ListByBranch(c.Context(), branchID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica un movimiento sobre un registro y crea la entrada del
//
//	ledger. purchase/return suman; sale/waste/transfer restan;
//	adjustment fija la cantidad objetivo absoluta.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "record_id, type, quantity"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.engine.ApplyMovement(c.Context(), inventory.MovementInput{
		RecordID:         in.RecordID,
		Type:             in.Type,
		Quantity:         in.Quantity,
		ActorID:          userID,
		Notes:            in.Notes,
		ReferenceOrderID: in.ReferenceOrderID,
	})
	if err != nil {
		if err == domain.ErrInvalidInput || err == domain.ErrInvalidMovementType {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo o cantidad inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "demasiada contención sobre el registro; reintentar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Description  Filtra por record_id, order_id o branch_id (en ese orden de
//
//	precedencia). branch_id admite type, from y to.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        record_id  query  string  false  "Registro de inventario"
// @Param        order_id   query  string  false  "Pedido de referencia"
// @Param        branch_id  query  string  false  "Sucursal; por defecto la del token"
// @Param        type       query  string  false  "Tipo de movimiento"
// @Param        from       query  string  false  "Desde (RFC3339)"
// @Param        to         query  string  false  "Hasta (RFC3339)"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)

	if recordID := c.Query("record_id"); recordID != "" {
		out, err := h.records.ListMovementsByRecord(c.Context(), recordID, limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(out)
	}
	if orderID := c.Query("order_id"); orderID != "" {
		out, err := h.records.ListMovementsByOrder(c.Context(), orderID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(out)
	}

	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "record_id, order_id o branch_id son requeridos"})
	}
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	out, err := h.records.ListMovementsByBranch(c.Context(), branchID, c.Query("type"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Registros bajo stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal; vacío = toda la cadena (solo admin)"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	out, err := h.projector.ListLowStock(c.Context(), branchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen agregado del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal; vacío = toda la cadena (solo admin)"
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	out, err := h.projector.Summarize(c.Context(), branchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Reporte PDF del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        branch_id  query  string  false  "Sucursal; vacío = toda la cadena (solo admin)"
// @Success      200  {file}  binary
// @Router       /api/inventory/summary/pdf [get]
func (h *InventoryHandler) SummaryPDF(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	pdfBytes, err := h.projector.SummaryPDF(c.Context(), branchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.pdf"`)
	return c.Send(pdfBytes)
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:                m.ID,
		InventoryRecordID: m.InventoryRecordID,
		BranchID:          m.BranchID,
		Type:              m.Type,
		QuantityDelta:     m.QuantityDelta,
		PreviousQuantity:  m.PreviousQuantity,
		NewQuantity:       m.NewQuantity,
		PerformedBy:       m.PerformedBy,
		ReferenceOrderID:  m.ReferenceOrderID,
		Notes:             m.Notes,
		UnitCost:          m.UnitCost,
		CreatedAt:         m.CreatedAt,
	}
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
