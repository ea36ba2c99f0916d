package errors

import "errors"

var (
	ErrPolicyNotFound    = errors.New("compliance policy not found for organization")
	ErrInvalidCheckInput = errors.New("invalid compliance check input")
)
