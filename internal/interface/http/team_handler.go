package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/response"
)

type TeamHandler struct {
	Teams     *application.TeamService
	Directory *application.DirectoryService
	Logger    *logrus.Logger
}

func NewTeamHandler(teams *application.TeamService, dir *application.DirectoryService, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{Teams: teams, Directory: dir, Logger: logger}
}

// createTeamRequest is checked by the service so that a caller who already holds a
// team gets the conflict whatever the payload.
type createTeamRequest struct {
	Name         string   `json:"name"`
	InviteEmails []string `json:"inviteEmails"`
}

type inviteRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

type updateTeamRequest struct {
	Name string `json:"name" binding:"required,teamname"`
}

type searchUsersQuery struct {
	Query string `form:"query"`
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.Teams.CreateTeam(c.Request.Context(), middleware.UserID(c), req.Name, req.InviteEmails)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusCreated, "Team created successfully", gin.H{"team": presentTeam(team)})
}

func (h *TeamHandler) MyTeam(c *gin.Context) {
	details, err := h.Teams.GetMyTeam(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, presentTeamDetails(details))
}

func (h *TeamHandler) SearchUsers(c *gin.Context) {
	var q searchUsersQuery
	_ = c.ShouldBindQuery(&q)
	users, err := h.Directory.SearchUsers(c.Request.Context(), q.Query)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, presentSummaries(users))
}

func (h *TeamHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.Teams.Invite(c.Request.Context(), middleware.UserID(c), req.Emails)
	if err != nil {
		respondError(c, h.Logger, err, "Only team owner can invite members")
		return
	}
	response.Message(c, http.StatusOK, "Invitations sent successfully", gin.H{"team": presentTeam(team)})
}

func (h *TeamHandler) Update(c *gin.Context) {
	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.Teams.RenameTeam(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		respondError(c, h.Logger, err, "Only team owner can update team")
		return
	}
	response.Message(c, http.StatusOK, "Team updated successfully", gin.H{"team": presentTeam(team)})
}

func (h *TeamHandler) MyInvitations(c *gin.Context) {
	invs, err := h.Teams.ListMyInvitations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, presentPendingInvitations(invs))
}

func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	team, err := h.Teams.AcceptInvitation(c.Request.Context(), middleware.UserID(c), pathToken(c))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Invitation accepted successfully", gin.H{"team": presentTeam(team)})
}

func (h *TeamHandler) RejectInvitation(c *gin.Context) {
	if err := h.Teams.RejectInvitation(c.Request.Context(), middleware.UserID(c), pathToken(c)); err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Invitation rejected", nil)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.Teams.DeleteTeam(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.Logger, err, "Only team owner can delete the team")
		return
	}
	response.Message(c, http.StatusOK, "Team deleted successfully", nil)
}

func (h *TeamHandler) Leave(c *gin.Context) {
	if err := h.Teams.LeaveTeam(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Successfully left the team", nil)
}
