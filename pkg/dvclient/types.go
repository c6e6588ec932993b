package dvclient

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type LoginResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type DV struct {
	ID            uint    `json:"id"`
	DVNumber      string  `json:"dv_number"`
	DVDate        string  `json:"dv_date"`
	Payee         string  `json:"payee"`
	Particulars   string  `json:"particulars"`
	Amount        string  `json:"amount"`
	Status        string  `json:"status"`
	OfficeCode    *string `json:"office_code"`
	CreatedBy     uint    `json:"created_by"`
	ApprovedBy    *uint   `json:"approved_by"`
	VoucherNumber *string `json:"voucher_number"`
	AccountCode   *string `json:"account_code"`
	Remarks       *string `json:"remarks"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	Creator       *User   `json:"creator,omitempty"`
	Approver      *User   `json:"approver,omitempty"`
}

type PageMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type DVPage struct {
	Items []DV
	Meta  PageMeta
}

type ListOptions struct {
	Status     string
	OfficeCode string
	Search     string
	Page       int
}

type CreateDVInput struct {
	DVNumber      string  `json:"dv_number"`
	DVDate        string  `json:"dv_date"`
	Payee         string  `json:"payee"`
	Particulars   string  `json:"particulars"`
	Amount        string  `json:"amount"`
	Status        string  `json:"status,omitempty"`
	OfficeCode    *string `json:"office_code,omitempty"`
	VoucherNumber *string `json:"voucher_number,omitempty"`
	AccountCode   *string `json:"account_code,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
}

type UpdateDVInput struct {
	DVNumber      *string `json:"dv_number,omitempty"`
	DVDate        *string `json:"dv_date,omitempty"`
	Payee         *string `json:"payee,omitempty"`
	Particulars   *string `json:"particulars,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Status        *string `json:"status,omitempty"`
	OfficeCode    *string `json:"office_code,omitempty"`
	ApprovedBy    *uint   `json:"approved_by,omitempty"`
	VoucherNumber *string `json:"voucher_number,omitempty"`
	AccountCode   *string `json:"account_code,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
}

type DashboardSummary struct {
	TotalDVs    int64  `json:"total_dvs"`
	PendingDVs  int64  `json:"pending_dvs"`
	ApprovedDVs int64  `json:"approved_dvs"`
	TotalAmount string `json:"total_amount"`
}
