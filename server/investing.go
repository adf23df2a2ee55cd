package server

import (
	"fmt"
	"net/http"
	"time"

	"fundbridge/reports"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type investRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Tier   string `json:"tier" binding:"required"`
}

type distributionRequest struct {
	TotalProfit      int64     `json:"total_profit" binding:"required"`
	DistributionDate time.Time `json:"distribution_date"`
}

func (s *Server) invest(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	var req investRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount and tier are required")
		return
	}

	result, err := s.services.Investments.Invest(c.Request.Context(), currentUser(c), pitchID, req.Amount, req.Tier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) getInvestments(c *gin.Context) {
	investments, err := s.services.Investments.GetInvestments(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": investments})
}

func (s *Server) declareDistribution(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	var req distributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "total_profit is required")
		return
	}

	result, err := s.services.Distributions.Declare(c.Request.Context(), currentUser(c), pitchID, req.TotalProfit, req.DistributionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) getDistributions(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	distributions, err := s.services.Distributions.GetDistributions(c.Request.Context(), currentUser(c), pitchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distributions": distributions})
}

func (s *Server) getDistributionPayouts(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}
	distributionID, ok := pathParamID(c, "did")
	if !ok {
		return
	}

	payouts, err := s.services.Distributions.GetDistributionPayouts(c.Request.Context(), currentUser(c), pitchID, distributionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (s *Server) getPayouts(c *gin.Context) {
	payouts, err := s.services.Distributions.GetPayouts(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (s *Server) getPortfolio(c *gin.Context) {
	portfolio, err := s.services.Portfolios.GetPortfolio(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (s *Server) getStatement(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	profile, err := s.services.Users.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	portfolio, err := s.services.Portfolios.GetPortfolio(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	payouts, err := s.services.Distributions.GetPayouts(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	titles := make(map[int64]string, len(portfolio.Holdings))
	for _, holding := range portfolio.Holdings {
		titles[holding.PitchID] = holding.PitchTitle
	}

	now := s.now()
	pdf, err := reports.RenderStatementPDF(&reports.Statement{
		Investor:    profile,
		Portfolio:   portfolio,
		Payouts:     payouts,
		PitchTitles: titles,
		GeneratedAt: now,
	})
	if err != nil {
		respondError(c, fmt.Errorf("failed to render statement: %w", err))
		return
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"bytes":   len(pdf),
	}).Info("Generated investor statement")

	filename := fmt.Sprintf("statement-%s.pdf", now.UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) getChart(c *gin.Context) {
	portfolio, err := s.services.Portfolios.GetPortfolio(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	image, err := s.chart.RenderPNG(portfolio)
	if err != nil {
		respondError(c, fmt.Errorf("failed to render chart: %w", err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", image)
}
