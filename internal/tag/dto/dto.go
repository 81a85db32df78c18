package dto

type TagFilters struct {
	Status    string
	ProductID string
	Page      int
	PageSize  int
}

type RegisterTagInput struct {
	UID string `json:"uid" binding:"required"`
}
