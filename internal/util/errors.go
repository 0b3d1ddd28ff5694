package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrProgramNotFound    = errors.New("program not found")
	ErrContentNotFound    = errors.New("content item not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this program")
	ErrContentNotInLedger = errors.New("content item not in progress ledger")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotPublished   = errors.New("quiz not published or not accessible")
	ErrNotEnrolled        = errors.New("not enrolled in this program")
	ErrContentIncomplete  = errors.New("program content not fully completed")
)
