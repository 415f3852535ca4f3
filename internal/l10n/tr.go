package l10n

const (
	UnexpectedErrorOccurredTrId = "unexpected_error_occurred"
	TooManyRequestsTrId         = "too_many_requests"
	InvalidBodyTrId             = "invalid_body"

	// interest
	InvalidEmailTrId       = "invalid_email"
	InvalidNameTrId        = "invalid_name"
	TooLongNameTrId        = "too_long_name"
	SubmitFailedTrId       = "submit_failed"
	InterestRecordedTrId   = "interest_recorded"
	InterestProcessingTrId = "interest_processing"

	// landing page
	PageTitleTrId       = "page_title"
	PageDescriptionTrId = "page_description"
)
