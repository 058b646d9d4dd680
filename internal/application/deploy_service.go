package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/pkg/deployagent"
)

// DeployService runs a deployment on the external agent and records the outcome.
type DeployService struct {
	Agent    DeployAgent // nil when no agent is configured
	Projects *ProjectService
	Logger   *logrus.Logger
}

func NewDeployService(agent DeployAgent, projects *ProjectService, logger *logrus.Logger) *DeployService {
	return &DeployService{Agent: agent, Projects: projects, Logger: logger}
}

type DeployInput struct {
	Name   string
	Image  string
	Port   int
	TeamID *string
}

func (s *DeployService) Deploy(ctx context.Context, ownerID string, in DeployInput, onLog func(line string)) (*entity.Project, error) {
	if s.Agent == nil {
		return nil, ErrDeployUnavailable
	}
	if err := validateProject(in.Name, in.Image, in.Port); err != nil {
		return nil, err
	}

	res, err := s.Agent.Deploy(ctx, deployagent.Request{
		Name:  strings.TrimSpace(in.Name),
		Image: strings.TrimSpace(in.Image),
		Port:  in.Port,
	}, onLog)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"owner_id": ownerID, "image": in.Image}).Warn("deploy failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrDeployFailed, err)
	}
	if strings.TrimSpace(res.URL) == "" {
		return nil, fmt.Errorf("%w: agent returned no url", ErrDeployFailed)
	}

	return s.Projects.Record(ctx, ownerID, RecordProjectInput{
		Name:   in.Name,
		Image:  in.Image,
		Port:   in.Port,
		URL:    res.URL,
		TeamID: in.TeamID,
	})
}
