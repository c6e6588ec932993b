package dv

import (
	"errors"
	"strings"

	dverrors "go-dvms/internal/dv/errors"
	"go-dvms/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError folds driver-level failures into the API taxonomy.
// The dv_number precheck runs inside the same transaction as the write, but a
// concurrent insert can still trip the unique index, so the constraint
// violation is mapped to the same field error the precheck produces.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dverrors.ErrDVNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_dvs_dv_number" {
			return apperror.Validation(map[string]string{
				"dv_number": dverrors.MsgDVNumberTaken,
			})
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_dvs_dv_number") {
		return apperror.Validation(map[string]string{
			"dv_number": dverrors.MsgDVNumberTaken,
		})
	}

	return err
}
