package services

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/FGSParent/models"
)

// FamilyDirectoryService resolves family membership: a child's owning family
// and a family's children and parent accounts. The claim engine and the
// notification triggers both depend on it.
type FamilyDirectoryService struct {
	db *goqu.Database
}

func NewFamilyDirectoryService(db *goqu.Database) *FamilyDirectoryService {
	return &FamilyDirectoryService{db: db}
}

func (s *FamilyDirectoryService) GetChild(ctx context.Context, childID int) (*models.Child, error) {
	var child models.Child
	found, err := s.db.From("child").
		Where(goqu.C("child_id").Eq(childID)).
		ScanStructContext(ctx, &child)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child %d: %w", childID, err)
	}
	if !found {
		return nil, ErrChildNotFound
	}
	return &child, nil
}

// GetChildFamily returns the family a child belongs to, including its
// timezone, which decides the child's claim-date bucketing.
func (s *FamilyDirectoryService) GetChildFamily(ctx context.Context, childID int) (*models.Family, error) {
	var family models.Family
	found, err := s.db.From("family").
		Select(
			goqu.I("family.family_id"),
			goqu.I("family.family_name"),
			goqu.I("family.timezone"),
			goqu.I("family.datetime_create"),
			goqu.I("family.datetime_update"),
		).
		Join(
			goqu.T("child"),
			goqu.On(goqu.I("child.family_id").Eq(goqu.I("family.family_id"))),
		).
		Where(goqu.I("child.child_id").Eq(childID)).
		ScanStructContext(ctx, &family)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch family for child %d: %w", childID, err)
	}
	if !found {
		return nil, ErrChildNotFound
	}
	return &family, nil
}

func (s *FamilyDirectoryService) GetFamilyChildren(ctx context.Context, familyID int) ([]models.Child, error) {
	var children []models.Child
	err := s.db.From("child").
		Where(goqu.C("family_id").Eq(familyID)).
		Order(goqu.I("child_id").Asc()).
		ScanStructsContext(ctx, &children)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch children for family %d: %w", familyID, err)
	}
	return children, nil
}

// GetFamilyParents returns the parent accounts of a family, the audience for
// claim notifications.
func (s *FamilyDirectoryService) GetFamilyParents(ctx context.Context, familyID int) ([]models.UserProfile, error) {
	var parents []models.UserProfile
	err := s.db.From("user_profile").
		Where(goqu.C("family_id").Eq(familyID)).
		Order(goqu.I("user_profile_id").Asc()).
		ScanStructsContext(ctx, &parents)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parents for family %d: %w", familyID, err)
	}
	return parents, nil
}
