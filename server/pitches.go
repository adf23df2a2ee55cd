package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fundbridge/models"
	"fundbridge/service"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

type businessProfileRequest struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	FoundedYear *int   `json:"founded_year"`
}

type createPitchRequest struct {
	Title        string        `json:"title"`
	Summary      string        `json:"summary"`
	Description  string        `json:"description"`
	Industry     string        `json:"industry"`
	TargetAmount int64         `json:"target_amount"`
	Tiers        []models.Tier `json:"tiers"`
	EndDate      time.Time     `json:"end_date"`
	Publish      bool          `json:"publish"`
}

type updatePitchRequest struct {
	Title        *string       `json:"title"`
	Summary      *string       `json:"summary"`
	Description  *string       `json:"description"`
	Industry     *string       `json:"industry"`
	TargetAmount *int64        `json:"target_amount"`
	Tiers        []models.Tier `json:"tiers"`
	EndDate      *time.Time    `json:"end_date"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) getBusinessProfile(c *gin.Context) {
	profile, err := s.services.Users.GetBusinessProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) upsertBusinessProfile(c *gin.Context) {
	var req businessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	profile, err := s.services.Users.UpsertBusinessProfile(c.Request.Context(), currentUser(c), &models.BusinessUser{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		FoundedYear: req.FoundedYear,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) getDashboard(c *gin.Context) {
	dashboard, err := s.services.Pitches.GetDashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (s *Server) browsePitches(c *gin.Context) {
	filter := models.PitchFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Industry: strings.TrimSpace(c.Query("industry")),
		Limit:    queryInt(c, "limit", defaultPageSize),
		Offset:   queryInt(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, models.PitchStatus(strings.TrimSpace(status)))
		}
	}

	pitches, err := s.services.Pitches.BrowsePitches(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pitches": pitches})
}

func (s *Server) getPitch(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	pitch, err := s.services.Pitches.GetPitch(c.Request.Context(), currentUser(c), pitchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pitch": pitch, "progress": pitch.FundingProgress()})
}

func (s *Server) createPitch(c *gin.Context) {
	var req createPitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pitch, err := s.services.Pitches.CreatePitch(c.Request.Context(), currentUser(c), service.CreatePitchRequest{
		Title:        req.Title,
		Summary:      req.Summary,
		Description:  req.Description,
		Industry:     req.Industry,
		TargetAmount: req.TargetAmount,
		Tiers:        req.Tiers,
		EndDate:      req.EndDate,
		Publish:      req.Publish,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pitch)
}

func (s *Server) updatePitch(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	var req updatePitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pitch, err := s.services.Pitches.UpdatePitch(c.Request.Context(), currentUser(c), pitchID, service.UpdatePitchRequest{
		Title:        req.Title,
		Summary:      req.Summary,
		Description:  req.Description,
		Industry:     req.Industry,
		TargetAmount: req.TargetAmount,
		Tiers:        req.Tiers,
		EndDate:      req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitch)
}

func (s *Server) changePitchStatus(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	pitch, err := s.services.Pitches.ChangeStatus(c.Request.Context(), currentUser(c), pitchID, models.PitchStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitch)
}

func (s *Server) getPitchInvestors(c *gin.Context) {
	pitchID, ok := pathID(c)
	if !ok {
		return
	}

	investors, err := s.services.Pitches.GetPitchInvestors(c.Request.Context(), currentUser(c), pitchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investors": investors})
}

// pathID parses the :id parameter, answering 400 when it is not a positive integer
func pathID(c *gin.Context) (int64, bool) {
	return pathParamID(c, "id")
}

func pathParamID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+key)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
