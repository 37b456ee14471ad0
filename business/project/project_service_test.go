package project

import (
	"agriVest/domain"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type memProjectRepo struct {
	projects map[uint]domain.Project
	nextID   uint
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[uint]domain.Project{}}
}

func (r *memProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.nextID++
	p.ID = r.nextID
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) FindByID(_ context.Context, id uint) (domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return domain.Project{}, fmt.Errorf("project %w", domain.ErrNotFound)
	}
	return p, nil
}

func (r *memProjectRepo) FindAll(_ context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range r.projects {
		if filter.FarmType != "" && p.FarmType != filter.FarmType {
			continue
		}
		if filter.Search != "" && !strings.Contains(p.Description, filter.Search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}

var (
	farmer   = domain.User{ID: 1, Username: "farmer1", Role: domain.RoleFarmer, IsActive: true}
	other    = domain.User{ID: 2, Username: "farmer2", Role: domain.RoleFarmer, IsActive: true}
	investor = domain.User{ID: 3, Username: "investor1", Role: domain.RoleInvestor, IsActive: true}
	staff    = domain.User{ID: 4, Username: "ops", Role: domain.RoleInvestor, IsStaff: true, IsActive: true}
)

func mustDate(t *testing.T, s string) datatypes.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func maizeProject(t *testing.T) domain.Project {
	return domain.Project{
		Description: "Maize farm",
		FarmType:    domain.FarmTypeCrop,
		FundingGoal: decimal.RequireFromString("100000.00"),
		StartDate:   mustDate(t, "2024-01-01"),
		EndDate:     mustDate(t, "2024-12-31"),
		IsOpen:      true,
	}
}

func TestCreateProjectByFarmer(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)

	in := maizeProject(t)
	in.AmountRaised = decimal.RequireFromString("500")
	in.FarmerID = 99

	p, err := svc.CreateProject(context.Background(), farmer, in)
	require.NoError(t, err)

	assert.Equal(t, uint(1), p.ID)
	assert.Equal(t, farmer.ID, p.FarmerID)
	assert.Equal(t, "0.00", p.AmountRaised.StringFixed(2))
	assert.Equal(t, "farmer1", p.Farmer.Username)
	assert.Len(t, repo.projects, 1)
}

func TestCreateProjectByInvestorForbidden(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)

	_, err := svc.CreateProject(context.Background(), investor, maizeProject(t))

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorContains(t, err, ErrMsgFarmersOnly)
	assert.Empty(t, repo.projects)
}

func TestCreateProjectRejectsInvertedDates(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)

	in := maizeProject(t)
	in.StartDate = mustDate(t, "2024-06-01")
	in.EndDate = mustDate(t, "2024-05-01")

	_, err := svc.CreateProject(context.Background(), farmer, in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, repo.projects)
}

func TestUpdateProject(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)
	created, err := svc.CreateProject(context.Background(), farmer, maizeProject(t))
	require.NoError(t, err)

	desc := "Maize and beans"
	updated, err := svc.UpdateProject(context.Background(), farmer, created.ID, domain.ProjectPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, desc, repo.projects[created.ID].Description)

	closed := false
	_, err = svc.UpdateProject(context.Background(), staff, created.ID, domain.ProjectPatch{IsOpen: &closed})
	require.NoError(t, err)
	assert.False(t, repo.projects[created.ID].IsOpen)
}

func TestUpdateProjectRejectsInvertedDates(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)
	created, err := svc.CreateProject(context.Background(), farmer, maizeProject(t))
	require.NoError(t, err)

	start, end := mustDate(t, "2024-06-01"), mustDate(t, "2024-05-01")
	_, err = svc.UpdateProject(context.Background(), farmer, created.ID, domain.ProjectPatch{StartDate: &start, EndDate: &end})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, mustDate(t, "2024-01-01"), repo.projects[created.ID].StartDate)
}

func TestUpdateAndDeleteByNonOwnerForbidden(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)
	created, err := svc.CreateProject(context.Background(), farmer, maizeProject(t))
	require.NoError(t, err)

	desc := "hijacked"
	for _, caller := range []domain.User{other, investor} {
		_, err = svc.UpdateProject(context.Background(), caller, created.ID, domain.ProjectPatch{Description: &desc})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		err = svc.DeleteProject(context.Background(), caller, created.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}

	assert.Equal(t, "Maize farm", repo.projects[created.ID].Description)
}

func TestDeleteProject(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)
	created, err := svc.CreateProject(context.Background(), farmer, maizeProject(t))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(context.Background(), farmer, created.ID))
	assert.Empty(t, repo.projects)

	err = svc.DeleteProject(context.Background(), farmer, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProjectNotFound(t *testing.T) {
	svc := NewProjectService(newMemProjectRepo())

	_, err := svc.GetProjectByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetProjectByID(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProjectsFilters(t *testing.T) {
	repo := newMemProjectRepo()
	svc := NewProjectService(repo)
	_, err := svc.CreateProject(context.Background(), farmer, maizeProject(t))
	require.NoError(t, err)

	fish := maizeProject(t)
	fish.Description = "Catfish ponds"
	fish.FarmType = domain.FarmTypeFishery
	_, err = svc.CreateProject(context.Background(), other, fish)
	require.NoError(t, err)

	all, err := svc.GetAllProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListProjects(context.Background(), domain.ProjectFilter{FarmType: domain.FarmTypeFishery})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Catfish ponds", filtered[0].Description)

	_, err = svc.ListProjects(context.Background(), domain.ProjectFilter{FarmType: "orchard"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
