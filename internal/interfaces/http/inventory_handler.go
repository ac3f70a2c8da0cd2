package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// InventoryHandler maneja las sesiones de inventario.
type InventoryHandler struct {
	workflow *inventory.Workflow
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(workflow *inventory.Workflow) *InventoryHandler {
	return &InventoryHandler{workflow: workflow}
}

// Start godoc
// @Summary      Iniciar inventario
// @Tags         inventories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartInventoryRequest  false  "zone opcional"
// @Success      201   {object}  dto.InventoryResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Start(c *fiber.Ctx) error {
	var in dto.StartInventoryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	inv, err := h.workflow.Start(c.Context(), in.Zone, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInventoryResponse(inv))
}

// List godoc
// @Summary      Listar inventarios
// @Tags         inventories
// @Produce      json
// @Param        status  query  string  false  "IN_PROGRESS o COMPLETED"
// @Success      200  {object}  dto.ListResponse[dto.InventoryResponse]
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.workflow.List(c.Context(), repository.InventoryFilter{
		Status: c.Query("status"),
		Zone:   c.Query("zone"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInventoryList(list))
}

// GetByID godoc
// @Summary      Obtener inventario con sus líneas
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.workflow.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInventoryResponse(inv))
}

// RecordCount godoc
// @Summary      Registrar conteo de una línea
// @Tags         inventories
// @Accept       json
// @Produce      json
// @Param        id         path  string                  true  "ID del inventario"
// @Param        articleId  path  string                  true  "ID del artículo"
// @Param        body       body  dto.RecordCountRequest  true  "counted_stock"
// @Success      200  {object}  dto.InventoryLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/lines/{articleId} [put]
func (h *InventoryHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.CountedStock == nil {
		return writeError(c, domain.Validationf("counted_stock requerido"))
	}
	l, err := h.workflow.RecordCount(c.Context(), c.Params("id"), c.Params("articleId"), *in.CountedStock, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InventoryLineResponse{
		ArticleID:        l.ArticleID,
		Reference:        l.Reference,
		Designation:      l.Designation,
		TheoreticalStock: l.TheoreticalStock,
		CountedStock:     l.CountedStock,
		Variance:         l.Variance,
		Status:           l.Status,
	})
}

// Validate godoc
// @Summary      Validar inventario y ajustar stock
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/validate [post]
func (h *InventoryHandler) Validate(c *fiber.Ctx) error {
	inv, err := h.workflow.Validate(c.Context(), c.Params("id"), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInventoryResponse(inv))
}

// Progress godoc
// @Summary      Avance del conteo
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.ProgressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/progress [get]
func (h *InventoryHandler) Progress(c *fiber.Ctx) error {
	p, err := h.workflow.Progress(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProgressResponse(p))
}

// Export godoc
// @Summary      Exportar líneas
// @Tags         inventories
// @Produce      text/csv
// @Param        id      path   string  true   "ID del inventario"
// @Param        format  query  string  false  "csv (por defecto)"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      415  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.workflow.ExportCSV(c.Context(), id, c.Query("format", inventory.FormatCSV))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventory-%s.csv"`, id))
	return c.Send(out)
}
