package dto

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
