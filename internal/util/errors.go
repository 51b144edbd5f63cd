package util

import (
	"errors"

	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

var (
	// validation
	ErrOutOfRange           = errors.New("grade value out of range [0,10]")
	ErrUnknownComponentType = errors.New("unknown grade component type")
	ErrUnknownPeriodType    = errors.New("unknown period type")
	ErrReasonRequired       = errors.New("a non-empty reason is required")
	ErrInvalidDecision      = errors.New("decision must be approved or rejected")

	// state
	ErrPeriodLocked        = errors.New("period is closed; corrections require an overwrite approval")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrApprovalNotRequired = errors.New("period is editable; write the grade directly instead of requesting approval")
	ErrAlreadyDecided      = errors.New("overwrite request has already been decided")
	ErrStaleApproval       = errors.New("grade changed since the overwrite request was filed")
	ErrSubmissionFinalized = errors.New("submission has been sent to parents and can no longer be resubmitted")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindState
	KindNotFound
	KindConcurrency
)

// Kind 将错误归类到规格化的错误分类，控制器据此映射 HTTP 状态码
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrUnknownComponentType),
		errors.Is(err, ErrUnknownPeriodType),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrInvalidDecision):
		return KindValidation
	case errors.Is(err, ErrPeriodLocked),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrApprovalNotRequired),
		errors.Is(err, ErrAlreadyDecided),
		errors.Is(err, ErrStaleApproval),
		errors.Is(err, ErrSubmissionFinalized):
		return KindState
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, database.ErrSerialization):
		return KindConcurrency
	}
	return KindUnknown
}
