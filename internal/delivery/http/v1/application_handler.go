package v1

import (
	"errors"
	"io"
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Multipart overhead allowed on top of the resume itself.
const multipartSlack = 1 << 20

type ApplicationHandler struct {
	applicationUC  domain.ApplicationUsecase
	maxResumeBytes int64
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(r *gin.RouterGroup, uploadLimit gin.HandlerFunc, applicationUC domain.ApplicationUsecase, maxResumeBytes int64) {
	handler := &ApplicationHandler{applicationUC: applicationUC, maxResumeBytes: maxResumeBytes}

	// Seeker routes
	r.POST("/jobs/:id/apply", uploadLimit, handler.Apply)
	r.GET("/seeker/applications", handler.ListMine)

	// Employer routes
	r.GET("/jobs/:id/applications", handler.ListForJob)

	applications := r.Group("/applications")
	{
		applications.GET("/:id", handler.GetDetail)
		applications.GET("/:id/resume", handler.Resume)
		applications.PATCH("/:id/status", handler.UpdateStatus)
	}
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Submit an application with a resume (PDF, DOC or DOCX). Seekers only, once per job.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      int     true   "Job ID"
// @Param        resume        formData  file    true   "Resume file"
// @Param        cover_letter  formData  string  false  "Cover letter"
// @Success      201           {object}  response.Response{data=domain.Application}
// @Failure      400           {object}  response.Response
// @Failure      403           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Failure      409           {object}  response.Response
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := pathID(c, "id", "job")
	if err != nil {
		c.Error(err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxResumeBytes+multipartSlack)

	resume, err := h.readResume(c)
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), middleware.ActorFrom(c), jobID, c.PostForm("cover_letter"), resume)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// readResume returns nil when no file was sent so the usecase decides what a
// missing resume means.
func (h *ApplicationHandler) readResume(c *gin.Context) (*domain.ResumeFile, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.New(http.StatusRequestEntityTooLarge, "Resume file is too large", err)
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.BadRequest("Invalid multipart form")
	}
	if header.Size > h.maxResumeBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "Resume file is too large", domain.ErrInvalidResume)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxResumeBytes+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ResumeFile{Filename: header.Filename, Data: data}, nil
}

// ListMyApplications godoc
// @Summary      Get my applications
// @Description  All applications submitted by the signed-in seeker, newest first
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /seeker/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListForSeeker(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// ListJobApplications godoc
// @Summary      List applications for a job
// @Description  All applications to a job, newest first (owning employer or administrator)
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, err := pathID(c, "id", "job")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.applicationUC.ListForJob(c.Request.Context(), middleware.ActorFrom(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// GetApplicationDetail godoc
// @Summary      Get application detail
// @Description  Visible to the owning employer, the applicant and administrators
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetDetail(c *gin.Context) {
	id, err := pathID(c, "id", "application")
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.GetApplication(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// UpdateStatusRequest is the request payload for changing an application's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus godoc
// @Summary      Update application status
// @Description  Set the status (applied, pending, reviewed, shortlisted, accepted, rejected; case-insensitive). Owning employer only.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id", "application")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// DownloadResume godoc
// @Summary      Download resume
// @Description  Redirects to a short-lived download URL. With redirect=false the URL is returned as JSON.
// @Tags         applications
// @Produce      json
// @Param        id        path      int     true   "Application ID"
// @Param        redirect  query     bool    false  "Redirect (default true)"
// @Success      200       {object}  response.Response
// @Success      302
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /applications/{id}/resume [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Resume(c *gin.Context) {
	id, err := pathID(c, "id", "application")
	if err != nil {
		c.Error(err)
		return
	}

	url, err := h.applicationUC.ResumeLink(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	if c.Query("redirect") == "false" {
		response.Success(c, http.StatusOK, "Resume link generated", gin.H{"url": url})
		return
	}
	c.Redirect(http.StatusFound, url)
}
