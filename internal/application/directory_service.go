package application

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
)

const (
	searchMinQueryLen = 2
	searchLimit       = 5
)

type DirectoryService struct {
	Directory repo.UserDirectory
	Logger    *logrus.Logger
}

func NewDirectoryService(dir repo.UserDirectory, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{Directory: dir, Logger: logger}
}

// SearchUsers matches query against emails. Short queries yield an empty list, never an error.
func (s *DirectoryService) SearchUsers(ctx context.Context, query string) ([]entity.UserSummary, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < searchMinQueryLen {
		return []entity.UserSummary{}, nil
	}
	users, err := s.Directory.SearchByEmail(ctx, q, searchLimit)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("query", q).Error("user search failed")
		}
		return nil, err
	}
	if users == nil {
		users = []entity.UserSummary{}
	}
	if len(users) > searchLimit {
		users = users[:searchLimit]
	}
	return users, nil
}
