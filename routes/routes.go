package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hostel-backend/controllers"
	"hostel-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers onto the HTTP surface.
func SetupRouter(
	rc *controllers.RoomController,
	ac *controllers.AllocationController,
	sc *controllers.ServiceRequestController,
	rpc *controllers.ReportController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", rc.CreateRoom)
			rooms.GET("", rc.ListRooms)
			rooms.GET("/available", rc.ListAvailableRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.PATCH("/:id/maintenance", rc.SetMaintenanceStatus)
			rooms.POST("/:id/retire", rc.RetireRoom)
		}

		allocations := api.Group("/allocations")
		{
			allocations.POST("", ac.RequestAllocation)
			allocations.GET("", ac.ListAllocations)
			allocations.GET("/:id", ac.GetAllocation)
			allocations.POST("/:id/confirm", ac.ConfirmAllocation)
			allocations.POST("/:id/checkin", ac.CheckIn)
			allocations.POST("/:id/checkout", ac.CheckOut)
			allocations.POST("/:id/cancel", ac.CancelAllocation)
			allocations.POST("/:id/refund", ac.RecordRefund)
			allocations.POST("/:id/rent", ac.RecordRentPayment)
		}

		requests := api.Group("/service-requests")
		{
			requests.POST("", sc.CreateServiceRequest)
			requests.GET("", sc.ListServiceRequests)
			requests.GET("/:id", sc.GetServiceRequest)
			requests.POST("/:id/acknowledge", sc.AcknowledgeServiceRequest)
			requests.POST("/:id/assign", sc.AssignServiceRequest)
			requests.POST("/:id/start", sc.StartServiceRequest)
			requests.POST("/:id/resolve", sc.ResolveServiceRequest)
			requests.POST("/:id/cancel", sc.CancelServiceRequest)
			requests.POST("/:id/feedback", sc.AttachFeedback)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/occupancy", rpc.GetOccupancy)
			reports.GET("/users/:id", rpc.GetUserSummary)
			reports.GET("/rooms/:id", rpc.GetRoomSummary)
			reports.GET("/service-requests", rpc.GetServiceRequestStats)
		}
	}

	return r
}
