package v1

import (
	"fmt"
	"net/http"
	"time"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers the read-only administrator routes.
func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin")
	{
		admin.GET("/stats", handler.GetStats)
		admin.GET("/users", handler.ListUsers)
		admin.GET("/employers", handler.ListEmployers)
		admin.GET("/jobs", handler.ListJobs)
		admin.GET("/applications", handler.ListApplications)
		admin.GET("/export", handler.Export)
	}
}

// GetStats godoc
// @Summary      Get admin dashboard statistics
// @Description  Returns counts for users by role, jobs, and applications by status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AdminStats}
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns paginated list of users with optional role filter
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "Filter by role (seeker, employer)"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListUsers(c.Request.Context(), middleware.ActorFrom(c), c.Query("role"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", result)
}

// ListEmployers godoc
// @Summary      List employers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Items per page"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/employers [get]
func (h *AdminHandler) ListEmployers(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListEmployers(c.Request.Context(), middleware.ActorFrom(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Employers retrieved", result)
}

// ListJobs godoc
// @Summary      List all jobs
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Items per page"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/jobs [get]
func (h *AdminHandler) ListJobs(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListJobs(c.Request.Context(), middleware.ActorFrom(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", result)
}

// ListApplications godoc
// @Summary      List all applications
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListApplications(c.Request.Context(), middleware.ActorFrom(c), c.Query("status"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// Export godoc
// @Summary      Export workbook
// @Description  Download users, jobs and applications as an xlsx workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Failure      403  {object}  response.Response
// @Router       /admin/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	data, err := h.adminUC.ExportWorkbook(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("job-board-export-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
