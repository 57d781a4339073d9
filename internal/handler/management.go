package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/purchase-event-pipeline/docs/management"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/health"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/service"
)

// HealthChecker computes the aggregated health on demand
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// ManagementHandler serves the management service HTTP API
type ManagementHandler struct {
	queryService service.QueryServicer
	health       HealthChecker
	router       *gin.Engine
	log          *zap.Logger
}

func NewManagementHandler(queryService service.QueryServicer, checker HealthChecker, log *zap.Logger) *ManagementHandler {
	h := &ManagementHandler{
		queryService: queryService,
		health:       checker,
		router:       newRouter("management"),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *ManagementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *ManagementHandler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/api/purchases", h.getAllPurchases)
	h.router.GET("/api/purchases/:userId", h.getUserPurchases)
}

// healthCheck handles GET /health
// @Summary Health check
// @Description Report store connectivity and consumer liveness
// @Tags health
// @Produce json
// @Success 200 {object} dto.ManagementHealthResponse
// @Failure 503 {object} dto.ManagementHealthResponse
// @Router /health [get]
func (h *ManagementHandler) healthCheck(c *gin.Context) {
	report := h.health.Check(c.Request.Context())

	code := http.StatusOK
	if !report.Healthy() {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, dto.ManagementHealthResponse{
		Status:  report.Status,
		Service: ManagementServiceName,
		MongoDB: report.Store,
		Kafka:   report.Consumer,
	})
}

// getUserPurchases handles GET /api/purchases/{userId}
// @Summary List purchases of a user
// @Description List every purchase of a user, newest first
// @Tags purchases
// @Produce json
// @Param userId path string true "User ID" example:"user123"
// @Success 200 {object} dto.UserPurchasesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/purchases/{userId} [get]
func (h *ManagementHandler) getUserPurchases(c *gin.Context) {
	userID := c.Param("userId")

	purchases, err := h.queryService.GetUserPurchases(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to get user purchases",
			zap.Error(err),
			zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:  errInternal,
			Detail: "Error retrieving purchases: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.UserPurchasesResponse{
		UserID:    userID,
		Purchases: purchases,
	})
}

// getAllPurchases handles GET /api/purchases
// @Summary List purchases
// @Description List the most recent purchases across all users, newest first
// @Tags purchases
// @Produce json
// @Param limit query int false "Maximum number of purchases (default 100, capped at 1000)" example:"10"
// @Success 200 {object} dto.AllPurchasesResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/purchases [get]
func (h *ManagementHandler) getAllPurchases(c *gin.Context) {
	var req dto.GetAllPurchasesRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, validationError(h.log, "Invalid purchases query", err))
		return
	}

	purchases, count, err := h.queryService.GetAllPurchases(c.Request.Context(), req.Limit)
	if err != nil {
		h.log.Error("Failed to get purchases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:  errInternal,
			Detail: "Error retrieving purchases: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.AllPurchasesResponse{
		Purchases: purchases,
		Count:     count,
	})
}
