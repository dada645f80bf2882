package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
)

const (
	// maxReserveAttempts bounds the optimistic-locking retry loop per line.
	maxReserveAttempts = 3
	retryBackoff       = 10 * time.Millisecond
)

// Line is one variant/quantity pair moving through the reservation engine.
type Line struct {
	VariantID int64
	Qty       int
}

// Engine moves stock between the free and reserved pools. All methods run
// inside the caller's transaction so a failure aborts the whole operation.
type Engine interface {
	// Reserve moves qty from free stock into the reserved pool for each
	// line. Fails the transaction when any line cannot be reserved.
	Reserve(ctx context.Context, tx *gorm.DB, lines []Line) error
	// Commit deducts previously reserved stock for good (payment received).
	Commit(ctx context.Context, tx *gorm.DB, lines []Line) error
	// Release returns reserved stock to the free pool (cancellation).
	// Inconsistencies are logged, never fatal.
	Release(ctx context.Context, tx *gorm.DB, lines []Line) error
}

type engine struct {
	logger *logger.Logger
}

func NewEngine(logg *logger.Logger) (Engine, error) {
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &engine{logger: logg}, nil
}

func (e *engine) Reserve(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive").
				WithDetails(map[string]any{"variant_id": line.VariantID, "qty": line.Qty})
		}
		if err := e.reserveLine(ctx, tx, line); err != nil {
			return err
		}
	}
	return nil
}

// reserveLine performs a conditional update guarded by the variant version.
// A version bump by a concurrent writer retries; insufficient stock fails.
func (e *engine) reserveLine(ctx context.Context, tx *gorm.DB, line Line) error {
	backoff := retry.WithMaxRetries(maxReserveAttempts, retry.NewConstant(retryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var variant models.Variant
		if err := tx.Select("id", "version", "stock_qty", "reserved_qty").
			First(&variant, "id = ?", line.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
					WithDetails(map[string]any{"variant_id": line.VariantID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant for reservation")
		}

		available := variant.StockQty - variant.ReservedQty
		if available < line.Qty {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]any{
					"variant_id": line.VariantID,
					"available":  available,
					"requested":  line.Qty,
				})
		}

		res := tx.Model(&models.Variant{}).
			Where("id = ? AND version = ? AND stock_qty - reserved_qty >= ?",
				line.VariantID, variant.Version, line.Qty).
			Updates(map[string]any{
				"reserved_qty": gorm.Expr("reserved_qty + ?", line.Qty),
				"version":      gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "reserving stock")
		}
		if res.RowsAffected == 0 {
			// another writer bumped the version between read and update
			return retry.RetryableError(pkgerrors.New(pkgerrors.CodeConflict, "concurrent stock update").
				WithDetails(map[string]any{"variant_id": line.VariantID}))
		}
		return nil
	})
}

func (e *engine) Commit(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	for _, line := range lines {
		res := tx.Model(&models.Variant{}).
			Where("id = ? AND reserved_qty >= ?", line.VariantID, line.Qty).
			Updates(map[string]any{
				"stock_qty":    gorm.Expr("stock_qty - ?", line.Qty),
				"reserved_qty": gorm.Expr("reserved_qty - ?", line.Qty),
				"version":      gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "committing reserved stock")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reserved stock below committed quantity").
				WithDetails(map[string]any{"variant_id": line.VariantID, "qty": line.Qty})
		}
	}
	return nil
}

func (e *engine) Release(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	for _, line := range lines {
		var variant models.Variant
		if err := tx.Select("id", "reserved_qty").
			First(&variant, "id = ?", line.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				e.logger.Warn(e.logger.WithFields(ctx, map[string]any{
					"variant_id": line.VariantID,
				}), "release skipped: variant missing")
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant for release")
		}

		release := line.Qty
		if variant.ReservedQty < release {
			e.logger.Warn(e.logger.WithFields(ctx, map[string]any{
				"variant_id": line.VariantID,
				"reserved":   variant.ReservedQty,
				"requested":  release,
			}), "reserved quantity below release amount, clamping to zero")
			release = variant.ReservedQty
		}
		if release == 0 {
			continue
		}

		res := tx.Model(&models.Variant{}).
			Where("id = ?", line.VariantID).
			Updates(map[string]any{
				"reserved_qty": gorm.Expr("reserved_qty - ?", release),
				"version":      gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "releasing reserved stock")
		}
	}
	return nil
}
