package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/FGSParent/models"
)

const (
	// A child can claim each prayer once per local day, five prayers total.
	maxClaimsPerDay = 5
	// Claims may be attributed to a past day up to a week back, never a
	// future one.
	maxBackdateDays = 7
	// Safety bound on the streak walk.
	maxStreakDays = 365

	defaultClaimListLimit = 50
)

// PrayerClaimService owns the prayer claim lifecycle: creation with
// duplicate/daily-cap/backdate validation, the pending -> approved|denied
// state machine, listing queries, and on-demand statistics.
//
// Claim creation is serialized per child by locking the child row for the
// duration of the creation transaction; approval and denial take a row lock
// on the claim and flip status with a conditional update, so a terminal
// claim can never transition again.
type PrayerClaimService struct {
	db        *goqu.Database
	directory *FamilyDirectoryService
	ledger    *PointLedgerService
	notifier  *NotificationTriggerService
}

// NewPrayerClaimService wires the engine. notifier may be nil; claim
// submission then simply goes unannounced.
func NewPrayerClaimService(db *goqu.Database, directory *FamilyDirectoryService, ledger *PointLedgerService, notifier *NotificationTriggerService) *PrayerClaimService {
	return &PrayerClaimService{
		db:        db,
		directory: directory,
		ledger:    ledger,
		notifier:  notifier,
	}
}

// PrayerClaimInput carries everything CreateClaim needs. Timezone is the
// owning family's IANA zone; BackdateDate, if set, attributes the claim to a
// past local day instead of local-today.
type PrayerClaimInput struct {
	ChildID      int
	PrayerName   string
	Points       int
	Timezone     string
	BackdateDate *string
}

// CreateClaim validates and persists a new pending claim, then notifies the
// family's parents best-effort. Notification failures never reach the
// caller.
func (s *PrayerClaimService) CreateClaim(ctx context.Context, input PrayerClaimInput) (*models.PrayerClaim, error) {
	if !models.IsValidPrayerName(input.PrayerName) {
		return nil, ErrInvalidPrayerName
	}

	loc, err := time.LoadLocation(input.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", input.Timezone, err)
	}

	now := time.Now()
	today := LocalDate(now, loc)

	effectiveDate := today
	backdated := false
	if input.BackdateDate != nil && *input.BackdateDate != "" && *input.BackdateDate != today {
		daysBack, err := DaysBetween(*input.BackdateDate, today)
		if err != nil {
			return nil, err
		}
		if daysBack < 0 {
			return nil, ErrBackdateInFuture
		}
		if daysBack > maxBackdateDays {
			return nil, ErrBackdateTooOld
		}
		effectiveDate = *input.BackdateDate
		backdated = true
	}

	claim := models.PrayerClaim{
		PrayerClaimID: uuid.NewString(),
		ChildID:       input.ChildID,
		PrayerName:    input.PrayerName,
		ClaimedAt:     now.UTC(),
		ClaimedDate:   effectiveDate,
		Status:        models.ClaimStatusPending,
		Points:        input.Points,
		Backdated:     backdated,
	}
	if backdated {
		claim.BackdateDate = &effectiveDate
	}

	var familyID int
	err = s.db.WithTx(func(tx *goqu.TxDatabase) error {
		// Lock the child row so the duplicate and daily-cap checks below
		// cannot race with a concurrent claim for the same child. The unique
		// index on (child_id, claimed_date, prayer_name) backstops this.
		var child models.Child
		found, err := tx.From("child").
			Where(goqu.C("child_id").Eq(input.ChildID)).
			ForUpdate(exp.Wait).
			ScanStructContext(ctx, &child)
		if err != nil {
			return fmt.Errorf("failed to fetch child %d: %w", input.ChildID, err)
		}
		if !found {
			return ErrChildNotFound
		}
		familyID = child.FamilyID

		duplicates, err := tx.From("prayer_claim").
			Where(
				goqu.C("child_id").Eq(input.ChildID),
				goqu.C("claimed_date").Eq(effectiveDate),
				goqu.C("prayer_name").Eq(input.PrayerName),
			).
			CountContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate claim: %w", err)
		}
		if duplicates > 0 {
			return ErrDuplicateClaim
		}

		dayTotal, err := tx.From("prayer_claim").
			Where(
				goqu.C("child_id").Eq(input.ChildID),
				goqu.C("claimed_date").Eq(effectiveDate),
			).
			CountContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to count claims for date: %w", err)
		}
		if dayTotal >= maxClaimsPerDay {
			return ErrDailyLimitExceeded
		}

		if _, err := tx.Insert("prayer_claim").Rows(claim).Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert prayer claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.NotifyParentsOfClaimSubmitted(familyID, claim)
	}

	return &claim, nil
}

// ApproveClaim transitions a pending claim to approved and, in the same
// transaction, appends the point-ledger event and credits the child's
// running total. Returns both the updated claim and the ledger event.
func (s *PrayerClaimService) ApproveClaim(ctx context.Context, claimID string, parentID int) (*models.PrayerClaim, *models.PointEvent, error) {
	var claim models.PrayerClaim
	var event *models.PointEvent

	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		found, err := tx.From("prayer_claim").
			Where(goqu.C("prayer_claim_id").Eq(claimID)).
			ForUpdate(exp.Wait).
			ScanStructContext(ctx, &claim)
		if err != nil {
			return fmt.Errorf("failed to fetch prayer claim %s: %w", claimID, err)
		}
		if !found {
			return ErrClaimNotFound
		}
		if claim.Status != models.ClaimStatusPending {
			return ErrInvalidStateTransition
		}

		now := time.Now().UTC()
		result, err := tx.Update("prayer_claim").
			Set(goqu.Record{
				"status":      models.ClaimStatusApproved,
				"approved_by": parentID,
				"approved_at": now,
			}).
			Where(
				goqu.C("prayer_claim_id").Eq(claimID),
				goqu.C("status").Eq(models.ClaimStatusPending),
			).
			Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to approve prayer claim %s: %w", claimID, err)
		}
		if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
			return ErrInvalidStateTransition
		}

		claim.Status = models.ClaimStatusApproved
		claim.ApprovedBy = &parentID
		claim.ApprovedAt = &now

		event, err = s.ledger.RecordApproval(ctx, tx, &claim, parentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return &claim, event, nil
}

// DenyClaim transitions a pending claim to denied. No point-ledger effect.
func (s *PrayerClaimService) DenyClaim(ctx context.Context, claimID string, parentID int, reason *string) (*models.PrayerClaim, error) {
	var claim models.PrayerClaim

	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		found, err := tx.From("prayer_claim").
			Where(goqu.C("prayer_claim_id").Eq(claimID)).
			ForUpdate(exp.Wait).
			ScanStructContext(ctx, &claim)
		if err != nil {
			return fmt.Errorf("failed to fetch prayer claim %s: %w", claimID, err)
		}
		if !found {
			return ErrClaimNotFound
		}
		if claim.Status != models.ClaimStatusPending {
			return ErrInvalidStateTransition
		}

		now := time.Now().UTC()
		result, err := tx.Update("prayer_claim").
			Set(goqu.Record{
				"status":        models.ClaimStatusDenied,
				"denied_by":     parentID,
				"denied_at":     now,
				"denial_reason": reason,
			}).
			Where(
				goqu.C("prayer_claim_id").Eq(claimID),
				goqu.C("status").Eq(models.ClaimStatusPending),
			).
			Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to deny prayer claim %s: %w", claimID, err)
		}
		if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
			return ErrInvalidStateTransition
		}

		claim.Status = models.ClaimStatusDenied
		claim.DeniedBy = &parentID
		claim.DeniedAt = &now
		claim.DenialReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

// GetClaim fetches a single claim by id.
func (s *PrayerClaimService) GetClaim(ctx context.Context, claimID string) (*models.PrayerClaim, error) {
	var claim models.PrayerClaim
	found, err := s.db.From("prayer_claim").
		Where(goqu.C("prayer_claim_id").Eq(claimID)).
		ScanStructContext(ctx, &claim)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer claim %s: %w", claimID, err)
	}
	if !found {
		return nil, ErrClaimNotFound
	}
	return &claim, nil
}

// GetChildClaims returns a child's claims, most recent first, optionally
// filtered by status. limit <= 0 falls back to the default of 50.
func (s *PrayerClaimService) GetChildClaims(ctx context.Context, childID int, status *string, limit int) ([]models.PrayerClaim, error) {
	if limit <= 0 {
		limit = defaultClaimListLimit
	}

	query := s.db.From("prayer_claim").
		Where(goqu.C("child_id").Eq(childID))
	if status != nil && *status != "" {
		query = query.Where(goqu.C("status").Eq(*status))
	}

	var claims []models.PrayerClaim
	err := query.
		Order(goqu.I("claimed_at").Desc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &claims)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claims for child %d: %w", childID, err)
	}
	return claims, nil
}

// GetClaimsForDate returns all of a child's claims attributed to one local
// calendar date.
func (s *PrayerClaimService) GetClaimsForDate(ctx context.Context, childID int, date string) ([]models.PrayerClaim, error) {
	if _, err := ParseClaimDate(date); err != nil {
		return nil, err
	}

	var claims []models.PrayerClaim
	err := s.db.From("prayer_claim").
		Where(
			goqu.C("child_id").Eq(childID),
			goqu.C("claimed_date").Eq(date),
		).
		ScanStructsContext(ctx, &claims)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claims for child %d on %s: %w", childID, date, err)
	}
	return claims, nil
}

// GetPendingClaimsForFamily collects pending claims across every child in
// the family, oldest claimed first, so parents work through a FIFO queue.
func (s *PrayerClaimService) GetPendingClaimsForFamily(ctx context.Context, familyID int) ([]models.PrayerClaim, error) {
	children, err := s.directory.GetFamilyChildren(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return []models.PrayerClaim{}, nil
	}

	childIDs := make([]int, len(children))
	for i, child := range children {
		childIDs[i] = child.ChildID
	}

	claims := []models.PrayerClaim{}
	err = s.db.From("prayer_claim").
		Where(
			goqu.C("child_id").In(childIDs),
			goqu.C("status").Eq(models.ClaimStatusPending),
		).
		Order(goqu.I("claimed_at").Asc()).
		ScanStructsContext(ctx, &claims)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending claims for family %d: %w", familyID, err)
	}
	return claims, nil
}

// GetPrayerStats computes a child's claim statistics from the full claim
// history. days is accepted for API compatibility but the counts are not
// windowed by it; only the streak walk is calendar-bounded.
func (s *PrayerClaimService) GetPrayerStats(ctx context.Context, childID int, days int) (*models.PrayerStats, error) {
	_ = days

	family, err := s.directory.GetChildFamily(ctx, childID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(family.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid family timezone %q: %w", family.Timezone, err)
	}

	var claims []models.PrayerClaim
	err = s.db.From("prayer_claim").
		Where(goqu.C("child_id").Eq(childID)).
		ScanStructsContext(ctx, &claims)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claims for child %d: %w", childID, err)
	}

	stats := &models.PrayerStats{
		ByPrayer: make(map[string]models.PrayerCounts, len(models.PrayerNames)),
	}
	for _, name := range models.PrayerNames {
		stats.ByPrayer[name] = models.PrayerCounts{}
	}

	approvedDates := make(map[string]struct{})
	for _, claim := range claims {
		stats.TotalClaimed++
		counts := stats.ByPrayer[claim.PrayerName]
		counts.Claimed++

		switch claim.Status {
		case models.ClaimStatusApproved:
			stats.TotalApproved++
			counts.Approved++
			approvedDates[claim.ClaimedDate] = struct{}{}
		case models.ClaimStatusDenied:
			stats.TotalDenied++
		case models.ClaimStatusPending:
			stats.PendingCount++
		}
		stats.ByPrayer[claim.PrayerName] = counts
	}

	if stats.TotalClaimed > 0 {
		rate := float64(stats.TotalApproved) / float64(stats.TotalClaimed) * 100
		stats.ApprovalRate = math.Round(rate*10) / 10
	}

	// Walk backwards from local-today; the streak ends at the first day
	// without an approved claim.
	day := LocalDate(time.Now(), loc)
	for i := 0; i < maxStreakDays; i++ {
		if _, ok := approvedDates[day]; !ok {
			break
		}
		stats.CurrentStreak++
		day = PreviousDay(day)
	}

	return stats, nil
}
