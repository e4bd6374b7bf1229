package v1

import (
	"strconv"

	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name, label string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

// pageParams reads page and page_size. Missing or malformed values are zero,
// which the usecases treat as defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return page, pageSize
}

func bindError(err error) error {
	return apperror.BadRequest(validation.Message(err))
}
