package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/purchase-event-pipeline/docs/web"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/service"
)

//go:embed static/index.html
var indexHTML []byte

// WebHandler serves the customer facing web service
type WebHandler struct {
	purchaseService service.PurchaseServicer
	router          *gin.Engine
	log             *zap.Logger
}

func NewWebHandler(purchaseService service.PurchaseServicer, log *zap.Logger) *WebHandler {
	h := &WebHandler{
		purchaseService: purchaseService,
		router:          newRouter("web"),
		log:             log,
	}

	h.registerRoutes()

	return h
}

func (h *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *WebHandler) registerRoutes() {
	h.router.GET("/", h.index)
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/buy", h.buy)
	h.router.GET("/getAllUserBuys", h.getAllUserBuys)
}

func (h *WebHandler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// healthCheck handles GET /health
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} dto.WebHealthResponse
// @Router /health [get]
func (h *WebHandler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WebHealthResponse{
		Status:  "healthy",
		Service: WebServiceName,
	})
}

// buy handles POST /buy
// @Summary Submit a purchase
// @Description Accept a purchase and publish it to the broker
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body dto.BuyRequest true "Purchase"
// @Success 200 {object} dto.BuyResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /buy [post]
func (h *WebHandler) buy(c *gin.Context) {
	var req dto.BuyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, validationError(h.log, "Invalid purchase request", err))
		return
	}

	resp := h.purchaseService.Buy(c.Request.Context(), &req)

	h.log.Info("Purchase accepted",
		zap.String("user_id", req.UserID),
		zap.Bool("published", resp.KafkaPublished))

	c.JSON(http.StatusOK, resp)
}

// getAllUserBuys handles GET /getAllUserBuys
// @Summary List purchases of a user
// @Description Fetch a user's purchases from the management service
// @Tags purchases
// @Produce json
// @Param userId query string true "User ID" example:"user123"
// @Success 200 {object} dto.UserPurchasesResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /getAllUserBuys [get]
func (h *WebHandler) getAllUserBuys(c *gin.Context) {
	var req dto.GetUserBuysRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, validationError(h.log, "Invalid user purchases query", err))
		return
	}

	c.JSON(http.StatusOK, h.purchaseService.GetUserBuys(c.Request.Context(), req.UserID))
}
