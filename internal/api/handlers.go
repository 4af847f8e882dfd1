package api

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokerdash/server/internal/dashboard"
)

type Handler struct {
	service *dashboard.Service
	logger  *logrus.Logger
}

func NewHandler(service *dashboard.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Handler{service: service, logger: logger}
}

// yearParam reads the year query parameter, defaulting to the current year.
func (h *Handler) yearParam(c *gin.Context) int {
	yearStr := c.DefaultQuery("year", "")
	if yearStr == "" {
		return time.Now().Year()
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return time.Now().Year()
	}
	return year
}

func (h *Handler) GetOverview(c *gin.Context) {
	report, err := h.service.Overview(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build overview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetManagement(c *gin.Context) {
	report, err := h.service.Management(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build management report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetOverallDeals(c *gin.Context) {
	report, err := h.service.OverallDeals(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build overall deals report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetDealsMonitoring(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.service.DealsMonitoring(c.Request.Context(), page)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build deals monitoring page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetAgents(c *gin.Context) {
	profiles, err := h.service.Agents(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build agent profiles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *Handler) GetAgentList(c *gin.Context) {
	agents, err := h.service.AgentList(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch agent list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, agents)
}

func (h *Handler) GetAgentRanking(c *gin.Context) {
	agentID := c.Query("agent_id")
	if agentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agent_id is required"})
		return
	}

	rankings, err := h.service.AgentRanking(c.Request.Context(), agentID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build agent ranking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rankings)
}

func (h *Handler) GetRankingSplit(c *gin.Context) {
	splits, err := h.service.RankingSplit(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build ranking split")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, splits)
}

func (h *Handler) GetAgentTransactions(c *gin.Context) {
	transactions, err := h.service.AgentTransactions(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build agent transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *Handler) GetFinance(c *gin.Context) {
	report, err := h.service.Finance(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build finance report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetTeams(c *gin.Context) {
	teams, err := h.service.Teams(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build teams")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (h *Handler) GetStatusBoard(c *gin.Context) {
	report, err := h.service.StatusBoard(c.Request.Context(), h.yearParam(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build status board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetDepartments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch departments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *Handler) GetReport(c *gin.Context) {
	metric := c.DefaultQuery("metric", "Deals")
	period := c.DefaultQuery("period", "7d")
	teamID := c.DefaultQuery("team_id", "All")

	report, err := h.service.Report(c.Request.Context(), metric, period, teamID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
