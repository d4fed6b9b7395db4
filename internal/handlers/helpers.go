package handlers

import (
	"fmt"
	"strconv"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// getUserIDFromContext returns the authenticated user's ID, or 0 for an
// anonymous request.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// pageParams reads ?page= and ?limit= with the listing defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// paginatedResponse wraps results in the count/next/previous envelope.
func paginatedResponse(c echo.Context, count int64, page, limit int, results interface{}) echo.Map {
	return echo.Map{
		"count":    count,
		"next":     pageLink(c, count, page, limit, page+1),
		"previous": pageLink(c, count, page, limit, page-1),
		"results":  results,
	}
}

func pageLink(c echo.Context, count int64, page, limit, target int) *string {
	if target < 1 || int64((target-1)*limit) >= count {
		return nil
	}
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(target))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

// newUserResponse builds the profile representation shared by user, recipe
// and subscription reads.
func newUserResponse(u *models.User, isSubscribed bool) models.UserResponse {
	resp := models.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		resp.Avatar = &avatar
	}
	return resp
}

// errorJSON is the {"error": ...} body used for conflict and empty-resource
// responses.
func errorJSON(message string, args ...interface{}) echo.Map {
	return echo.Map{"error": fmt.Sprintf(message, args...)}
}
