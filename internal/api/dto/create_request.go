package dto

// CreateRequest is the body of an add request: the two inputs of the add form.
type CreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Reminder string `json:"reminder" validate:"required"`
}
