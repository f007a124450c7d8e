package server

import (
	"errors"
	"fmt"
	"papertrader/internal/engine"
	"papertrader/types"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type tradeRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity any    `json:"quantity" binding:"required"` // number or numeric string
	Type     string `json:"type" binding:"required"`
}

type tradeResponse struct {
	Transaction types.Transaction     `json:"transaction"`
	Portfolio   types.ValuationReport `json:"portfolio"`
}

func (s *Server) getPrices(c *gin.Context) {
	ok(c, "", s.session.Prices())
}

func (s *Server) postTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			badRequest(c, msgMissingFields)
			return
		}
		badRequest(c, "Invalid request body")
		return
	}

	side, err := types.ParseSide(req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	quantity, err := types.ParseQuantity(req.Quantity)
	if err != nil {
		s.log.Debug("quantity is not a number", zap.Any("quantity", req.Quantity), zap.Error(err))
		quantity = 0
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))

	tx, err := s.session.ExecuteOrder(types.NewOrder(symbol, quantity, side))
	if err != nil {
		fail(c, err)
		return
	}

	msg := fmt.Sprintf("%s order placed for %d shares of %s", side, quantity, symbol)
	ok(c, msg, tradeResponse{
		Transaction: tx,
		Portfolio:   s.session.Valuate(),
	})
}

func (s *Server) getPortfolio(c *gin.Context) {
	ok(c, "", s.session.Valuate())
}

func (s *Server) getHistory(c *gin.Context) {
	ok(c, "", s.session.History())
}

func (s *Server) getHistoryCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="history.csv"`)
	if err := engine.WriteHistoryCSV(c.Writer, s.session.History()); err != nil {
		s.log.Error("write history csv", zap.Error(err))
	}
}
