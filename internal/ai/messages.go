package ai

import "errors"

// User-facing copy for generation failures. The web layer shows these
// verbatim, so keep them free of internal detail.
const (
	MsgNoImage          = "Please add a photo of your item first."
	MsgInvalidImage     = "We couldn't read that image link. Try uploading the photo again."
	MsgInvalidParams    = "Please pick a category and condition from the list."
	MsgRateLimit        = "The description service is busy right now. Please try again in a moment."
	MsgTimeout          = "Generating the description took too long. Please try again."
	MsgUpstream         = "We couldn't generate a description right now. Please try again."
	MsgValidationFailed = "The generated description didn't come out right. Please try again."
	MsgGenericFailure   = "Something went wrong while generating the description. Please try again."
)

var userMessages = map[ErrorCode]string{
	CodeNoImage:          MsgNoImage,
	CodeInvalidImage:     MsgInvalidImage,
	CodeInvalidParams:    MsgInvalidParams,
	CodeRateLimit:        MsgRateLimit,
	CodeTimeout:          MsgTimeout,
	CodeUpstream:         MsgUpstream,
	CodeValidationFailed: MsgValidationFailed,
}

// UserMessage renders any error as a sentence fit for the seller's screen.
// Classified codes map to their own copy; everything else, nil included,
// falls back to the generic message. Never returns "".
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if msg, ok := userMessages[e.Code]; ok {
			return msg
		}
	}
	return MsgGenericFailure
}
