package dto

type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"notblank"`
	HTML    string `json:"html" validate:"notblank"`
}
