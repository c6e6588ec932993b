package dverrors

import (
	"net/http"

	"go-dvms/internal/shared/apperror"
)

var (
	ErrDVNotFound = apperror.New(
		apperror.CodeNotFound,
		"DV not found",
		http.StatusNotFound,
	)
	ErrTransitionForbidden = apperror.New(
		apperror.CodeForbidden,
		"your role is not allowed to perform this status transition",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid DV status transition",
		http.StatusUnprocessableEntity,
	)
)

// Field-level messages mirror what the validation details carry for each
// violated constraint.
const (
	MsgDVNumberTaken    = "Dv Number has already been taken"
	MsgDVNumberRequired = "Dv Number is required"
	MsgDVDateInvalid    = "Dv Date must be a valid date in YYYY-MM-DD format"
	MsgPayeeRequired    = "Payee is required"
	MsgPayeeTooLong     = "Payee may not be greater than 255 characters"
	MsgParticularsBlank = "Particulars is required"
	MsgAmountNegative   = "Amount must be at least 0"
	MsgAmountTooLarge   = "Amount may not exceed 13 integer digits"
	MsgStatusInvalid    = "Status must be one of: draft submitted approved disapproved cancelled"
	MsgApproverUnknown  = "Approved By must reference an existing user"
	MsgRemarksRequired  = "Remarks is required"
)
