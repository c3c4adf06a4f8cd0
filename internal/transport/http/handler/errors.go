package handler

const (
	errInternalServer = "Internal server error"
	errUnauthorized   = "Unauthorized"
	errTokenInvalid   = "Token is invalid or expired"
	errUserExists     = "An account with this email already exists"
	errUserNotFound   = "User not found"
	errDealNotFound   = "Deal not found"
	errInvalidDealID  = "Invalid deal id"
	errNotEligible    = "Your account is not eligible for this deal"
	errClaimExists    = "You have already claimed this deal"
)
