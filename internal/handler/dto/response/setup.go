package response

type CompanyResponse struct {
	CompanyName string `json:"company_name"`
	Abbrev      string `json:"abbrev"`
	CompanyCode string `json:"company_code"`
}

// CompanyStatusResponse is the anonymous view of setup state. Name and
// code stay behind authentication.
type CompanyStatusResponse struct {
	Configured bool `json:"configured"`
}
