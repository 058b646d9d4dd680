package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
)

type ProjectService struct {
	Projects repo.ProjectRepository
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{Projects: projects, Logger: logger}
}

type RecordProjectInput struct {
	Name   string
	Image  string
	Port   int
	URL    string
	TeamID *string
}

// Record stores a deployment outcome for ownerID. The team id is not checked against
// existing teams.
func (s *ProjectService) Record(ctx context.Context, ownerID string, in RecordProjectInput) (*entity.Project, error) {
	if err := validateProject(in.Name, in.Image, in.Port); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, invalid("url", "is required")
	}

	p := &entity.Project{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Image:   strings.TrimSpace(in.Image),
		Port:    in.Port,
		URL:     strings.TrimSpace(in.URL),
		OwnerID: ownerID,
		TeamID:  nonEmpty(in.TeamID),
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": ownerID}).Info("project recorded")
	}
	return p, nil
}

// List returns projects the caller owns plus, when teamID is given, the team's projects.
// Membership in teamID is not verified.
func (s *ProjectService) List(ctx context.Context, callerID string, teamID *string) ([]entity.Project, error) {
	projects, err := s.Projects.ListVisible(ctx, callerID, nonEmpty(teamID))
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []entity.Project{}
	}
	return projects, nil
}

func validateProject(name, image string, port int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalid("name", "is required")
	case strings.TrimSpace(image) == "":
		return invalid("image", "is required")
	case port < 1 || port > 65535:
		return invalid("port", "must be between 1 and 65535")
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
