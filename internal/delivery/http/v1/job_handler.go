package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
	appUC domain.ApplicationUsecase
}

func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase, appUC domain.ApplicationUsecase) {
	handler := &JobHandler{jobUC: jobUC, appUC: appUC}

	// Public routes identify the caller when a token is present
	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}

	employer := protected.Group("/employer")
	{
		employer.GET("/jobs", handler.ListByEmployer)
	}
}

type JobListResponse struct {
	Jobs          []domain.Job `json:"jobs"`
	AppliedJobIDs []int64      `json:"applied_job_ids,omitempty"`
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Newest first. search matches title, company or description (case-insensitive). Without page_size every match is returned. Seekers also get the ids of jobs they applied to.
// @Tags         jobs
// @Produce      json
// @Param        search     query     string  false  "Search text"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Success      200        {object}  response.Response{data=JobListResponse}
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	page, pageSize := pageParams(c)

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), actor, c.Query("search"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	data := JobListResponse{Jobs: jobs}
	if actor.IsSeeker() {
		ids, err := h.appUC.AppliedJobIDs(c.Request.Context(), actor)
		if err != nil {
			c.Error(err)
			return
		}
		data.AppliedJobIDs = ids
	}

	if pageSize > 0 && page < 1 {
		page = 1
	}
	response.List(c, http.StatusOK, "Jobs retrieved", data, response.NewMeta(total, page, pageSize))
}

// GetJobDetails godoc
// @Summary      Get job details
// @Description  Public. Seekers see whether they already applied; employers see whether they own the job.
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.JobDetail}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id", "job")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job details retrieved", job)
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a new job posting (Employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobFields  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.PostJob(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Replace the job's fields (owning employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int               true  "Job ID"
// @Param        job  body      domain.JobFields  true  "Job JSON"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", "job")
	if err != nil {
		c.Error(err)
		return
	}

	var req domain.JobFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.EditJob(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Delete the job together with all of its applications (owning employer only)
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "job")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// ListEmployerJobs godoc
// @Summary      List my jobs
// @Description  The signed-in employer's own postings, newest first
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Failure      403  {object}  response.Response
// @Router       /employer/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListByEmployer(c *gin.Context) {
	jobs, err := h.jobUC.ListEmployerJobs(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Employer jobs retrieved", jobs)
}
