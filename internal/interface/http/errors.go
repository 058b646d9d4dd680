package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/pkg/response"
	"github.com/oksasatya/deploydash/pkg/validation"
)

type apiError struct {
	status  int
	message string
}

// Order matters: the first match wins.
var errorTable = []struct {
	target error
	apiError
}{
	{application.ErrInvalidAssertion, apiError{http.StatusUnauthorized, "Invalid token"}},
	{application.ErrUserNotFound, apiError{http.StatusNotFound, "User not found"}},
	{application.ErrTeamNotFound, apiError{http.StatusNotFound, "No team found"}},
	{application.ErrInvalidInvitation, apiError{http.StatusNotFound, "Invalid or expired invitation"}},
	{application.ErrNotInTeam, apiError{http.StatusBadRequest, "You are not in a team"}},
	{application.ErrAlreadyInTeam, apiError{http.StatusBadRequest, "You are already in a team"}},
	{application.ErrNotOwner, apiError{http.StatusForbidden, "Only team owner can do this"}},
	{application.ErrOwnerCannotLeave, apiError{http.StatusForbidden, "Team owner cannot leave. Delete the team instead."}},
	{application.ErrDeployUnavailable, apiError{http.StatusServiceUnavailable, "Deployments are not available"}},
	{application.ErrDeployFailed, apiError{http.StatusBadGateway, "Deployment failed"}},
}

func classify(err error) (apiError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.apiError, true
		}
	}
	return apiError{http.StatusInternalServerError, "Server error"}, false
}

// respondError writes the error body for err. notOwner, when set, replaces the
// generic message for ErrNotOwner. Unclassified errors are logged and hidden.
func respondError(c *gin.Context, logger *logrus.Logger, err error, notOwner string) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusBadRequest, "Validation failed", map[string]string{verr.Field: verr.Reason})
		return
	}

	ae, known := classify(err)
	if !known && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		}).Error("request failed")
	}
	if notOwner != "" && errors.Is(err, application.ErrNotOwner) {
		ae.message = notOwner
	}
	response.Error(c, ae.status, ae.message, nil)
}

func respondBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
}

// pathToken reads a route token parameter; blank tokens are treated as not found.
func pathToken(c *gin.Context) string {
	return strings.TrimSpace(c.Param("token"))
}
