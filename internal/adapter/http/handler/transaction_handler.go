package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	ledgerSvc    ports.LedgerService
	defaultLimit int
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService, defaultLimit int) *TransactionHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &TransactionHandler{ledgerSvc: ledgerSvc, defaultLimit: defaultLimit}
}

// Transact handles POST /api/v1/wallets/:id/transactions.
func (h *TransactionHandler) Transact(c *gin.Context) {
	walletID, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.TransactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.Transact(c.Request.Context(), ports.TransactRequest{
		WalletID:    walletID,
		Amount:      req.Amount,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.TransactResponse{
		TransactionID: result.TransactionID.String(),
		Balance:       domain.MoneyString(result.Balance),
		Idempotent:    result.Idempotent,
	}
	if result.Idempotent {
		// Replays return the original outcome, not a new resource.
		response.OK(c, resp)
		return
	}
	response.Created(c, resp)
}

// List handles GET /api/v1/wallets/:id/transactions?skip=&limit=.
func (h *TransactionHandler) List(c *gin.Context) {
	walletID, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	skip, limit, err := h.pageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), walletID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, dto.TransactionListResponse{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// Export handles GET /api/v1/wallets/:id/transactions/export.
func (h *TransactionHandler) Export(c *gin.Context) {
	walletID, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.ledgerSvc.ExportCSV(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", walletID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// DeleteAll handles DELETE /api/v1/wallets/:id/transactions.
func (h *TransactionHandler) DeleteAll(c *gin.Context) {
	walletID, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.ledgerSvc.DeleteAllTransactions(c.Request.Context(), walletID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"wallet_id": walletID.String(), "balance": "0.0000"})
}

// DeleteOne handles DELETE /api/v1/transactions/:id.
func (h *TransactionHandler) DeleteOne(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.ledgerSvc.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": id.String()})
}

// pageParams reads skip/limit query parameters. Absent values get
// defaults; malformed values are pagination errors, same as out-of-range
// ones, so the caller sees a single failure mode.
func (h *TransactionHandler) pageParams(c *gin.Context) (int, int, error) {
	skip := 0
	limit := h.defaultLimit

	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperror.ErrInvalidPagination(map[string]any{"skip": raw})
		}
		skip = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperror.ErrInvalidPagination(map[string]any{"limit": raw})
		}
		limit = v
	}
	return skip, limit, nil
}
