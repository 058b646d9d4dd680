package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/deploydash/pkg/deployagent"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

func strPtr(s string) *string { return &s }

func TestRecordWithoutTeamIsListedForOwner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	svc := NewProjectService(store.projects, helpers.NewNopLogger())

	p, err := svc.Record(ctx, "o", RecordProjectInput{
		Name: "web", Image: "nginx:alpine", Port: 80, URL: "https://web.example.com", TeamID: strPtr(""),
	})
	require.NoError(t, err)
	require.Nil(t, p.TeamID)
	require.NotEmpty(t, p.ID)

	list, err := svc.List(ctx, "o", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p.ID, list[0].ID)

	others, err := svc.List(ctx, "someone-else", nil)
	require.NoError(t, err)
	require.Empty(t, others)
	require.NotNil(t, others)
}

func TestListIncludesTeamProjectsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	svc := NewProjectService(store.projects, helpers.NewNopLogger())
	team := "11111111-1111-1111-1111-111111111111"

	_, err := svc.Record(ctx, "a", RecordProjectInput{Name: "api", Image: "api:1", Port: 8080, URL: "u1", TeamID: &team})
	require.NoError(t, err)
	_, err = svc.Record(ctx, "b", RecordProjectInput{Name: "web", Image: "web:1", Port: 80, URL: "u2", TeamID: &team})
	require.NoError(t, err)
	_, err = svc.Record(ctx, "b", RecordProjectInput{Name: "solo", Image: "solo:1", Port: 81, URL: "u3"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "a", &team)
	require.NoError(t, err)
	require.Equal(t, []string{"web", "api"}, []string{list[0].Name, list[1].Name})

	list, err = svc.List(ctx, "a", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRecordValidation(t *testing.T) {
	svc := NewProjectService(newTestStore().projects, nil)
	cases := map[string]RecordProjectInput{
		"name":  {Image: "i", Port: 1, URL: "u"},
		"image": {Name: "n", Port: 1, URL: "u"},
		"port":  {Name: "n", Image: "i", Port: 70000, URL: "u"},
		"url":   {Name: "n", Image: "i", Port: 1},
	}
	for field, in := range cases {
		_, err := svc.Record(context.Background(), "o", in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, field)
		require.Equal(t, field, verr.Field)
	}
}

type mockAgent struct{ mock.Mock }

func (m *mockAgent) Deploy(ctx context.Context, req deployagent.Request, onLog func(string)) (*deployagent.Result, error) {
	args := m.Called(ctx, req)
	for _, line := range []string{"pulling", "running"} {
		if onLog != nil {
			onLog(line)
		}
	}
	res, _ := args.Get(0).(*deployagent.Result)
	return res, args.Error(1)
}

func TestDeployRecordsProject(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	projects := NewProjectService(store.projects, nil)
	agent := &mockAgent{}
	agent.On("Deploy", mock.Anything, deployagent.Request{Name: "web", Image: "nginx", Port: 80}).
		Return(&deployagent.Result{URL: "https://web.example.com"}, nil)

	svc := NewDeployService(agent, projects, helpers.NewNopLogger())
	var logs []string
	p, err := svc.Deploy(ctx, "o", DeployInput{Name: " web ", Image: "nginx", Port: 80}, func(l string) { logs = append(logs, l) })
	require.NoError(t, err)
	require.Equal(t, "https://web.example.com", p.URL)
	require.Equal(t, "web", p.Name)
	require.Equal(t, []string{"pulling", "running"}, logs)
	recorded, err := projects.List(ctx, "o", nil)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	agent.AssertExpectations(t)
}

func TestDeployFailures(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	projects := NewProjectService(store.projects, nil)

	_, err := NewDeployService(nil, projects, nil).Deploy(ctx, "o", DeployInput{Name: "n", Image: "i", Port: 1}, nil)
	require.ErrorIs(t, err, ErrDeployUnavailable)

	agent := &mockAgent{}
	agent.On("Deploy", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	svc := NewDeployService(agent, projects, helpers.NewNopLogger())

	_, err = svc.Deploy(ctx, "o", DeployInput{Name: "n", Image: "i", Port: 0}, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Deploy(ctx, "o", DeployInput{Name: "n", Image: "i", Port: 1}, nil)
	require.ErrorIs(t, err, ErrDeployFailed)
	require.True(t, strings.Contains(err.Error(), "boom"))

	agent.On("Deploy", mock.Anything, mock.Anything).Return(&deployagent.Result{}, nil).Once()
	_, err = svc.Deploy(ctx, "o", DeployInput{Name: "n", Image: "i", Port: 1}, nil)
	require.ErrorIs(t, err, ErrDeployFailed)
	recorded, err := projects.List(ctx, "o", nil)
	require.NoError(t, err)
	require.Empty(t, recorded)
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	for _, e := range []string{"alice@x.com", "Alan@x.com", "bob@x.com", "sally@x.com", "al1@x.com", "al2@x.com", "al3@x.com"} {
		store.addUser(e, e, e)
	}
	svc := NewDirectoryService(store.users, helpers.NewNopLogger())

	out, err := svc.SearchUsers(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)

	out, err = svc.SearchUsers(ctx, " ")
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = svc.SearchUsers(ctx, " AL ")
	require.NoError(t, err)
	require.Len(t, out, 5)
	for _, u := range out {
		require.Contains(t, strings.ToLower(u.Email), "al")
	}
	require.Equal(t, "alice@x.com", out[0].Email)

	out, err = svc.SearchUsers(ctx, "zz")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}
