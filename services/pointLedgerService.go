package services

import (
	"context"
	"fmt"
	"log"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/FGSParent/models"
)

// PointLedgerService owns the append-only point_event ledger and the child's
// running total. The two are only ever written together, inside the caller's
// transaction, so a crash cannot approve a claim without awarding its points.
type PointLedgerService struct {
	db *goqu.Database
}

func NewPointLedgerService(db *goqu.Database) *PointLedgerService {
	return &PointLedgerService{db: db}
}

// RecordApproval appends the ledger event for an approved claim and
// increments the child's total, within tx. The event carries the claim id;
// the unique index on point_event.prayer_claim_id makes a retried approval
// idempotent.
func (s *PointLedgerService) RecordApproval(ctx context.Context, tx *goqu.TxDatabase, claim *models.PrayerClaim, parentID int) (*models.PointEvent, error) {
	event := models.PointEvent{
		PointEventID:  uuid.NewString(),
		ChildID:       claim.ChildID,
		Points:        claim.Points,
		Reason:        fmt.Sprintf("Prayer: %s", claim.PrayerName),
		PrayerClaimID: &claim.PrayerClaimID,
		Backdated:     claim.Backdated,
		BackdateDate:  claim.BackdateDate,
		CreatedBy:     parentID,
	}

	if _, err := tx.Insert("point_event").Rows(event).Executor().ExecContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to record point event for claim %s: %w", claim.PrayerClaimID, err)
	}

	result, err := tx.Update("child").
		Set(goqu.Record{"total_points": goqu.L("total_points + ?", claim.Points)}).
		Where(goqu.C("child_id").Eq(claim.ChildID)).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update point total for child %d: %w", claim.ChildID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Printf("Point total update matched no child row for claim %s", claim.PrayerClaimID)
		return nil, ErrChildNotFound
	}

	return &event, nil
}

// GetChildEvents returns a child's ledger history, most recent first.
func (s *PointLedgerService) GetChildEvents(ctx context.Context, childID int, limit int) ([]models.PointEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []models.PointEvent
	err := s.db.From("point_event").
		Where(goqu.C("child_id").Eq(childID)).
		Order(goqu.I("datetime_create").Desc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &events)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch point events for child %d: %w", childID, err)
	}
	return events, nil
}

// GetChildBalance returns the child's current running point total.
func (s *PointLedgerService) GetChildBalance(ctx context.Context, childID int) (int, error) {
	var total int
	found, err := s.db.From("child").
		Select("total_points").
		Where(goqu.C("child_id").Eq(childID)).
		ScanValContext(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch point total for child %d: %w", childID, err)
	}
	if !found {
		return 0, ErrChildNotFound
	}
	return total, nil
}
