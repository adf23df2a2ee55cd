package server

import (
	"context"
	"net/http"
	"time"

	"fundbridge/models"
	"fundbridge/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type transactionsQuery struct {
	Since time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (s *Server) deposit(c *gin.Context) {
	s.moveFunds(c, s.services.Wallet.Deposit)
}

func (s *Server) withdraw(c *gin.Context) {
	s.moveFunds(c, s.services.Wallet.Withdraw)
}

func (s *Server) moveFunds(c *gin.Context, move func(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error)) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount is required")
		return
	}

	tx, err := move(c.Request.Context(), currentUser(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx, "balance": tx.BalanceAfter})
}

func (s *Server) getTransactions(c *gin.Context) {
	var query transactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "since must be an RFC 3339 timestamp")
		return
	}

	var transactions []*models.Transaction
	var err error
	if query.Since.IsZero() {
		limit := queryInt(c, "limit", service.DefaultTransactionLimit)
		transactions, err = s.services.Wallet.GetTransactions(c.Request.Context(), currentUser(c), limit)
	} else {
		transactions, err = s.services.Wallet.GetTransactionsSince(c.Request.Context(), currentUser(c), query.Since)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
