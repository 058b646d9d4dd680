package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/response"
)

type ProjectHandler struct {
	Projects *application.ProjectService
	Deploys  *application.DeployService
	Logger   *logrus.Logger
}

func NewProjectHandler(projects *application.ProjectService, deploys *application.DeployService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Deploys: deploys, Logger: logger}
}

// portValue accepts 8080 as well as "8080"; form inputs post strings.
type portValue int

func (p *portValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(0), Field: "port"}
	}
	*p = portValue(n)
	return nil
}

type recordProjectRequest struct {
	Name   string    `json:"name" binding:"required"`
	Image  string    `json:"image" binding:"required"`
	Port   portValue `json:"port" binding:"required,port"`
	URL    string    `json:"url" binding:"required"`
	TeamID string    `json:"teamId" binding:"omitempty,uuid"`
}

type deployRequest struct {
	Name   string    `json:"name" binding:"required"`
	Image  string    `json:"image" binding:"required"`
	Port   portValue `json:"port" binding:"required,port"`
	TeamID string    `json:"teamId" binding:"omitempty,uuid"`
}

type listProjectsQuery struct {
	TeamID string `form:"teamId" binding:"omitempty,uuid"`
}

// optional maps the "" a client sends for "no team" (or a JSON null) to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *ProjectHandler) Record(c *gin.Context) {
	var req recordProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Projects.Record(c.Request.Context(), middleware.UserID(c), application.RecordProjectInput{
		Name:   req.Name,
		Image:  req.Image,
		Port:   int(req.Port),
		URL:    req.URL,
		TeamID: optional(req.TeamID),
	})
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusCreated, presentProject(p))
}

func (h *ProjectHandler) List(c *gin.Context) {
	var q listProjectsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	projects, err := h.Projects.List(c.Request.Context(), middleware.UserID(c), optional(q.TeamID))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, presentProjects(projects))
}

type deployOutcome struct {
	project *entity.Project
	err     error
}

// Deploy proxies a deployment to the agent and streams it back as server-sent events:
// "log" per agent line, then either "result" with the recorded project or "error".
func (h *ProjectHandler) Deploy(c *gin.Context) {
	var req deployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if h.Deploys == nil || h.Deploys.Agent == nil {
		respondError(c, h.Logger, application.ErrDeployUnavailable, "")
		return
	}

	ctx := c.Request.Context()
	uid := middleware.UserID(c)
	logs := make(chan string, 64)
	done := make(chan deployOutcome, 1)
	go func() {
		p, err := h.Deploys.Deploy(ctx, uid, application.DeployInput{
			Name:   req.Name,
			Image:  req.Image,
			Port:   int(req.Port),
			TeamID: optional(req.TeamID),
		}, func(line string) {
			select {
			case logs <- line:
			case <-ctx.Done():
			}
		})
		done <- deployOutcome{project: p, err: err}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case line := <-logs:
			c.SSEvent("log", line)
			return true
		case out := <-done:
			for drained := false; !drained; {
				select {
				case line := <-logs:
					c.SSEvent("log", line)
				default:
					drained = true
				}
			}
			h.finishDeploy(c, out)
			return false
		case <-ctx.Done():
			return false
		}
	})
}

func (h *ProjectHandler) finishDeploy(c *gin.Context, out deployOutcome) {
	if out.err == nil {
		c.SSEvent("result", presentProject(out.project))
		return
	}
	var verr *application.ValidationError
	if errors.As(out.err, &verr) {
		c.SSEvent("error", response.ErrorBody{Message: "Validation failed", Details: map[string]string{verr.Field: verr.Reason}})
		return
	}
	ae, known := classify(out.err)
	if !known && h.Logger != nil {
		h.Logger.WithError(out.err).WithField("request_id", c.GetString("request_id")).Error("deploy stream failed")
	}
	c.SSEvent("error", response.ErrorBody{Message: ae.message})
}
