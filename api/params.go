package api

import (
	"strconv"
	"strings"
	"time"

	"invoicing/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// pathID parses a positive numeric path parameter, answering 400 otherwise
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter; invalid values count as absent
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}

// parseDate parses an optional yyyy-MM-dd value; empty gives the zero date
func parseDate(value string) (datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return datatypes.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return datatypes.Date{}, err
	}
	return models.DateOf(t), nil
}
