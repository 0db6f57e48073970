package request

type SetupCompanyRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Abbrev      string `json:"abbrev"`
}
