package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	KRAPin  *string `json:"kra_pin" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	KRAPin  *string `json:"kra_pin" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateBranchRequest represents a branch update request
type UpdateBranchRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
}
