package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokerdash/server/internal/dashboard"
)

func SetupRoutes(router *gin.Engine, service *dashboard.Service, logger *logrus.Logger) {
	handler := NewHandler(service, logger)

	api := router.Group("/api")
	{
		api.GET("/overview", handler.GetOverview)
		api.GET("/management", handler.GetManagement)
		api.GET("/overall-deals", handler.GetOverallDeals)
		api.GET("/deals-monitoring", handler.GetDealsMonitoring)
		api.GET("/agents", handler.GetAgents)
		api.GET("/agents/list", handler.GetAgentList)
		api.GET("/agents/ranking", handler.GetAgentRanking)
		api.GET("/agents/ranking-split", handler.GetRankingSplit)
		api.GET("/agents/transactions", handler.GetAgentTransactions)
		api.GET("/finance", handler.GetFinance)
		api.GET("/teams", handler.GetTeams)
		api.GET("/status-board", handler.GetStatusBoard)
		api.GET("/departments", handler.GetDepartments)
		api.GET("/reports", handler.GetReport)
	}
}
