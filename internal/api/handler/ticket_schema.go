package handler

// Request payloads for the ticket endpoints. Tickets can be filed either as
// JSON or as multipart/form-data (when carrying an inline attachment), so
// every field declares both tags.

type createTicketRequest struct {
	NameIssue        string  `json:"name_issue" form:"name_issue" validate:"required,min=3,max=100"`
	Description      string  `json:"description" form:"description" validate:"required"`
	Priority         string  `json:"priority" form:"priority" validate:"required,oneof=low medium high"`
	IssueType        string  `json:"issue_type" form:"issue_type" validate:"required"`
	Status           string  `json:"status" form:"status"`
	DueDate          string  `json:"due_date" form:"due_date" validate:"required"`
	ProductProjectID string  `json:"product_project_id" form:"product_project_id" validate:"required"`
	AssignedTech     *string `json:"assigned_tech" form:"assigned_tech"`
	AttachmentLink   string  `json:"attachment_link" form:"attachment_link" validate:"omitempty,url"`
}

type patchTicketRequest struct {
	Status       *string `json:"status" form:"status"`
	AssignedTech *string `json:"assigned_tech" form:"assigned_tech"`
}

// listResponse is the generic envelope for collection endpoints.
type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

type priorityStatsResponse struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
	Total  int64 `json:"total"`
}

type assigneeStatsItem struct {
	TechUUID string `json:"tech_uuid"`
	TechName string `json:"tech_name"`
	Count    int64  `json:"count"`
}
