package sync

// organizationNames maps the provider's organization codes to the issuing
// company names used as half of the card catalog's natural key.
var organizationNames = map[string]string{
	"0301": "삼성카드",
	"0302": "신한카드",
	"0303": "현대카드",
	"0304": "KB국민카드",
	"0305": "롯데카드",
	"0306": "신한카드",
	"0311": "NH농협카드",
	"0313": "하나카드",
	"0317": "우리카드",
	"0320": "BC카드",
}

// CompanyForOrganization resolves an organization code to an issuer name.
// Unknown codes pass through unchanged so records from organizations added
// by the provider later still reconcile consistently.
func CompanyForOrganization(code string) string {
	if name, ok := organizationNames[code]; ok {
		return name
	}
	return code
}
