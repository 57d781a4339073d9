package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
)

const (
	ManagementServiceName = "customer-management-api"
	WebServiceName        = "customer-web-server"

	errValidation = "validation_error"
	errInternal   = "internal_error"
)

func newRouter(docsInstance string) *gin.Engine {
	router := gin.Default()
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docsInstance)))
	return router
}

func validationError(log *zap.Logger, msg string, err error) dto.ErrorResponse {
	log.Warn(msg, zap.Error(err))
	return dto.ErrorResponse{
		Error:   errValidation,
		Message: err.Error(),
	}
}
