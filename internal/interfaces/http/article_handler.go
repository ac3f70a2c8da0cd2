package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/article"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ArticleHandler maneja artículos, sus movimientos y la lista de reposición.
type ArticleHandler struct {
	registry *article.Registry
	ledger   *ledger.Ledger
}

// NewArticleHandler construye el handler.
func NewArticleHandler(registry *article.Registry, l *ledger.Ledger) *ArticleHandler {
	return &ArticleHandler{registry: registry, ledger: l}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "reference, designation, family, location obligatorios"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	a, err := h.registry.Create(c.Context(), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewArticleResponse(a))
}

// List godoc
// @Summary      Buscar o listar artículos
// @Description  q busca por subcadena en referencia, designación, código de barras y familia.
//
//	location filtra por ubicación exacta.
//
// @Tags         articles
// @Produce      json
// @Param        q         query  string  false  "Texto a buscar"
// @Param        location  query  string  false  "Ubicación exacta"
// @Success      200  {object}  dto.ListResponse[dto.ArticleResponse]
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	var (
		list []*entity.Article
		err  error
	)
	switch {
	case c.Query("location") != "":
		list, err = h.registry.ByLocation(c.Context(), c.Query("location"))
	default:
		list, err = h.registry.Search(c.Context(), c.Query("q"))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewArticleList(list))
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.registry.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewArticleResponse(a))
}

// FindByBarcode godoc
// @Summary      Resolver un código escaneado
// @Tags         articles
// @Produce      json
// @Param        code  path  string  true  "Código de barras o referencia"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/barcode/{code} [get]
func (h *ArticleHandler) FindByBarcode(c *fiber.Ctx) error {
	a, err := h.registry.FindByBarcode(c.Context(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewArticleResponse(a))
}

// Update godoc
// @Summary      Modificar datos maestros
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	a, err := h.registry.Update(c.Context(), c.Params("id"), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewArticleResponse(a))
}

// Delete godoc
// @Summary      Eliminar artículo sin movimientos
// @Tags         articles
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	if err := h.registry.Delete(c.Context(), c.Params("id"), GetUser(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del artículo"
// @Param        body  body  dto.ApplyMovementRequest  true  "type (ENTRY, EXIT, ADJUSTMENT), quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/movements [post]
func (h *ArticleHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mov, err := h.ledger.ApplyMovement(c.Context(), c.Params("id"), in.Type, in.Quantity, in.Note, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         articles
// @Produce      json
// @Param        id    path   string  true   "ID del artículo"
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD), inclusivo"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD), inclusivo"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/movements [get]
func (h *ArticleHandler) History(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.StockHistory(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewMovementList(list))
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Artículos activos en o bajo su mínimo con la cantidad sugerida de pedido.
// @Tags         articles
// @Produce      json
// @Param        location  query  string  false  "Ubicación. Vacío = todas."
// @Success      200  {object}  dto.ListResponse[dto.ReplenishmentSuggestionDTO]
// @Router       /api/articles/replenishment [get]
func (h *ArticleHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.ledger.ReplenishmentList(c.Context(), c.Query("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// parseDate acepta RFC3339 o YYYY-MM-DD (UTC). Con endOfDay, una fecha sin hora cubre el día completo.
func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, domain.Validationf("fecha inválida: %q", v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
