package handlers

// Common error messages
const (
	ErrMsgInvalidReqBody  = "Invalid request body"
	ErrMsgInternal        = "Internal Server Error"
	ErrMsgModelNotFound   = "Model '%s' not found"
	ErrMsgRecordNotFound  = "Record with id '%d' not found under the model '%s'"
	ErrMsgInvalidRecordID = "Invalid record id '%s'"
	ErrMsgMissingFields   = "Missing required fields: %s"
	ErrMsgInvalidField    = "Invalid field '%s' in model '%s'"
)
