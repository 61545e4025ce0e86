package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/heatgrid-backend-go/internal/config"
	"github.com/jengzang/heatgrid-backend-go/internal/dataset"
	"github.com/jengzang/heatgrid-backend-go/internal/handler"
	"github.com/jengzang/heatgrid-backend-go/internal/middleware"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/sirupsen/logrus"
)

// Services 路由依赖的服务
type Services struct {
	Views    *service.ViewService
	City     *service.CityService
	Datasets *service.DatasetService // 为 nil 时不注册导入接口
	Loader   *dataset.Loader
}

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logrus.StandardLogger()))
	r.MaxMultipartMemory = cfg.MaxMemory

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Heatgrid API is running",
			"views":   svc.Views.Count(),
		})
	})

	api := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, time.Duration(cfg.RateWindowSecs)*time.Second)
		api.Use(middleware.RateLimit(limiter))
	}

	gridHandler := handler.NewGridHandler(svc.Views)
	api.GET("/periods", gridHandler.GetPeriods)
	api.GET("/grid", gridHandler.GetLayout)
	api.GET("/grid/cells/:row/:col", gridHandler.GetCellPosition)

	// 城市概况与三维模型
	cityHandler := handler.NewCityHandler(svc.City)
	city := api.Group("/city")
	{
		city.GET("", cityHandler.GetSummary)
		city.GET("/model", cityHandler.GetModel)
	}

	// 交互式热力图视图
	viewHandler := handler.NewViewHandler(svc.Views)
	views := api.Group("/views")
	{
		views.POST("", viewHandler.CreateView)
		views.GET("/:id", viewHandler.GetView)
		views.DELETE("/:id", viewHandler.DeleteView)
		views.PUT("/:id/period", viewHandler.SelectPeriod)
		views.GET("/:id/field", viewHandler.GetField)
		views.PUT("/:id/layers", viewHandler.SetLayers)
		views.GET("/:id/mitigations", viewHandler.ListMitigations)
		views.POST("/:id/mitigations", viewHandler.PlaceMitigation)
		views.DELETE("/:id/mitigations", viewHandler.ClearMitigations)
		views.DELETE("/:id/mitigations/:index", viewHandler.RemoveMitigation)
	}

	if svc.Datasets != nil {
		datasetHandler := handler.NewDatasetHandler(svc.Datasets)
		datasets := api.Group("/datasets", middleware.RequireToken(cfg.JWTSecret))
		{
			datasets.POST("/import", datasetHandler.Import)
		}
	}

	return r
}
