package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/stock"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	stockuc "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/stock"
)

// ======================================================
// HANDLER
// ======================================================

type StockHandler struct {
	repo   stock.Repository
	ledger *stockuc.Ledger
}

func NewStockHandler(repo stock.Repository, ledger *stockuc.Ledger) *StockHandler {
	return &StockHandler{repo: repo, ledger: ledger}
}

// ======================================================
// REQUESTS / RESPONSES
// ======================================================

type AddStockItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Description string          `json:"description"`
}

type UpdateStockItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	MinStock    int             `json:"min_stock"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Description string          `json:"description"`
}

type StockMovementRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

type StockItemView struct {
	models.StockItem
	Status stock.ItemStatus `json:"status"`
}

// ======================================================
// ITEMS
// ======================================================

func (h *StockHandler) ListItems(c *gin.Context) {
	items, err := h.repo.ListStockItems(c.Request.Context())
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	views := make([]StockItemView, 0, len(items))
	for _, item := range items {
		views = append(views, StockItemView{
			StockItem: item,
			Status:    stock.StatusOf(&item),
		})
	}

	httpresp.List(c, views)
}

func (h *StockHandler) CreateItem(c *gin.Context) {
	acting := middleware.ActingUser(c)

	var req AddStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	item, err := h.ledger.AddItem(c.Request.Context(), stockuc.AddItemInput{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		UnitValue:   req.UnitValue,
		Description: req.Description,
		Actor:       acting.Name,
		ActorID:     &acting.ID,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.Created(c, item)
}

// UpdateItem altera apenas os dados cadastrais. A quantidade só muda por
// movimentação.
func (h *StockHandler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.MinStock < 0 {
		httperr.Handle(c, httperr.Validation("min_stock", "estoque mínimo não pode ser negativo"))
		return
	}
	if req.UnitValue.IsNegative() {
		httperr.Handle(c, httperr.Validation("unit_value", "valor unitário não pode ser negativo"))
		return
	}

	item, err := h.repo.GetStockItem(c.Request.Context(), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	item.Name = req.Name
	item.Category = req.Category
	item.MinStock = req.MinStock
	item.UnitValue = req.UnitValue
	item.Description = req.Description

	if err := h.repo.UpdateStockItem(c.Request.Context(), item); err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, item)
}

func (h *StockHandler) DeleteItem(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.ledger.RemoveItem(c.Request.Context(), id, acting.Name, &acting.ID); err != nil {
		httperr.Handle(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// MOVEMENTS
// ======================================================

func (h *StockHandler) Receive(c *gin.Context) {
	h.move(c, h.ledger.Receive)
}

func (h *StockHandler) Consume(c *gin.Context) {
	h.move(c, h.ledger.Consume)
}

func (h *StockHandler) move(
	c *gin.Context,
	op func(ctx context.Context, in stockuc.MovementInput) (*models.StockItem, error),
) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	item, err := op(c.Request.Context(), stockuc.MovementInput{
		ItemID:   id,
		Quantity: req.Quantity,
		Reason:   req.Reason,
		Actor:    acting.Name,
		ActorID:  &acting.ID,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, StockItemView{
		StockItem: *item,
		Status:    stock.StatusOf(item),
	})
}

// Summary devolve os agregados exibidos no painel de estoque.
func (h *StockHandler) Summary(c *gin.Context) {
	items, err := h.repo.ListStockItems(c.Request.Context())
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	totalValue := decimal.Zero
	lowCount := 0
	outCount := 0
	for i := range items {
		item := &items[i]
		totalValue = totalValue.Add(item.UnitValue.Mul(decimal.NewFromInt(int64(item.Quantity))))
		switch stock.StatusOf(item) {
		case stock.ItemLow:
			lowCount++
		case stock.ItemOut:
			outCount++
		}
	}

	httpresp.OK(c, gin.H{
		"total_items": len(items),
		"total_value": totalValue,
		"low_stock":   lowCount,
		"out_of_stock": outCount,
	})
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	filter := stock.MovementFilter{}

	if v := c.Query("item_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_item_id", "Item inválido.")
			return
		}
		itemID := uint(id)
		filter.ItemID = &itemID
	}
	filter.Type = c.Query("type")

	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_year", "Ano inválido.")
			return
		}
		filter.Year = year
	}
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			httperr.BadRequest(c, "invalid_month", "Mês inválido.")
			return
		}
		filter.Month = month
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			httperr.BadRequest(c, "invalid_limit", "Limite inválido.")
			return
		}
		filter.Limit = limit
	}

	movements, err := h.repo.ListStockMovements(c.Request.Context(), filter)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, movements)
}
