package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/application/usecase"
	"github.com/piccolaroma/cadena-api/internal/domain"
)

// RiderHandler maneja las peticiones HTTP para repartidores (protegido).
type RiderHandler struct {
	uc *usecase.RiderUseCase
}

// NewRiderHandler construye el handler.
func NewRiderHandler(uc *usecase.RiderUseCase) *RiderHandler {
	return &RiderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar repartidor
// @Tags         riders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRiderRequest  true  "branch_id y name"
// @Success      201   {object}  dto.RiderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/riders [post]
func (h *RiderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRiderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y name son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener repartidor por ID
// @Tags         riders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del repartidor"
// @Success      200  {object}  dto.RiderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/riders/{id} [get]
func (h *RiderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "repartidor no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar repartidores de una sucursal
// @Tags         riders
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal; por defecto la del token"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200        {object}  dto.RiderListResponse
// @Router       /api/riders [get]
func (h *RiderHandler) List(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListByBranch(branchID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar repartidor
// @Tags         riders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del repartidor"
// @Param        body  body  dto.UpdateRiderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.RiderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/riders/{id} [put]
func (h *RiderHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateRiderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "repartidor no encontrado"})
	}
	return c.JSON(out)
}
