package server

import (
	"net/http"
	"time"

	"fundbridge/models"
	"fundbridge/service"

	"github.com/gin-gonic/gin"
)

type createCampaignRequest struct {
	PitchID   int64     `json:"pitch_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Budget    int64     `json:"budget" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func (s *Server) createCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "pitch_id, name, budget, start_date and end_date are required")
		return
	}

	campaign, err := s.services.Campaigns.CreateCampaign(c.Request.Context(), currentUser(c), service.CreateCampaignRequest{
		PitchID:   req.PitchID,
		Name:      req.Name,
		Budget:    req.Budget,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (s *Server) getCampaigns(c *gin.Context) {
	campaigns, err := s.services.Campaigns.GetCampaigns(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (s *Server) changeCampaignStatus(c *gin.Context) {
	campaignID, ok := pathID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	campaign, err := s.services.Campaigns.ChangeStatus(c.Request.Context(), currentUser(c), campaignID, models.AdCampaignStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}
