package validator

const (
	MsgValidationFailed = "Validation failed for the request."
	MsgInvalidBody      = "The request body must be a JSON object."

	MsgInvalidTitle   = "Please enter a valid todo item"
	MsgEmptyTitle     = "The title is empty or the title is not a string."
	MsgDuplicateEntry = "This todo item already exists. Please try a new one."
	MsgInvalidID      = "The specified todo ID is not a valid one. Please provide a valid one."
	MsgIDNotFound     = "The specified todo item does not exist."

	MsgInvalidEmail    = "Please enter a valid email address."
	MsgInvalidPassword = "Please enter a password."
	MsgEmailTaken      = "An account with this email already exists."
)
