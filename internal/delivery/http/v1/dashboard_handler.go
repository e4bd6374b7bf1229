package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(protected *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}
	protected.GET("/dashboard", handler.Get)
}

// GetDashboard godoc
// @Summary      Dashboard
// @Description  Seekers get their applications; employers get their jobs and the number of applications received
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Dashboard}
// @Failure      401  {object}  response.Response
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) Get(c *gin.Context) {
	dash, err := h.dashboardUC.GetDashboard(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", dash)
}
