package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists with this email")

	ErrDealNotFound  = errors.New("deal not found")
	ErrInvalidDealID = errors.New("invalid deal id")

	ErrClaimNotFound = errors.New("claim not found")
	ErrClaimExists   = errors.New("deal already claimed")
	ErrNotEligible   = errors.New("not eligible to claim this deal")
	ErrUnauthorized  = errors.New("unauthorized")
)
