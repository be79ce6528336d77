package stock

import "github.com/ClinicaVidaNova/clinic-scheduler/internal/models"

// ===============================
// Derived Item Status
// ===============================

type ItemStatus string

const (
	ItemOK  ItemStatus = "normal"
	ItemLow ItemStatus = "baixo"
	ItemOut ItemStatus = "esgotado"
)

// StatusOf deriva a situação do item a partir da quantidade: zero é
// esgotado; igual ou abaixo do mínimo (e acima de zero) é baixo.
func StatusOf(item *models.StockItem) ItemStatus {
	switch {
	case item.Quantity == 0:
		return ItemOut
	case item.Quantity <= item.MinStock:
		return ItemLow
	default:
		return ItemOK
	}
}
