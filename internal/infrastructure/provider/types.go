package provider

// Login types the account-creation endpoint distinguishes. Simplified
// ("app") auth exists in two variants that share the same request shape.
const (
	LoginTypeIDPassword    = "1"
	LoginTypeSimplifiedAlt = "4"
	LoginTypeSimplified    = "5"
)

// TwoWayInfo is the opaque continuation payload the provider returns with
// a two-factor challenge and expects echoed back verbatim on the next
// attempt. Its keys are provider-defined and must not be interpreted here,
// with one exception: loginTypeLevel may be supplied by the caller on the
// first simplified-auth attempt.
type TwoWayInfo map[string]any

// ConnectedIDParams carries everything the account-creation endpoint
// accepts. Which fields are required depends on LoginType; the client
// validates before encrypting anything.
type ConnectedIDParams struct {
	Organization string
	LoginType    string

	// ID/password flow
	LoginID  string
	Password string

	// Simplified-auth flow
	UserName string
	PhoneNo  string
	Identity string
	Telecom  string

	// Common optional fields
	CardNo       string
	CardPassword string

	// Continuation of a pending two-factor login
	TwoWay TwoWayInfo
}

// ListParams is shared by the card-list and billing-list endpoints.
type ListParams struct {
	Organization string
	ConnectedID  string
	BirthDate    string
	CardNo       string
	CardPassword string
	InquiryType  string
}

// ApprovalParams adds the mandatory date range of the approval endpoint.
// Dates are YYYYMMDD.
type ApprovalParams struct {
	ListParams
	StartDate string
	EndDate   string
}

// CardEntry is one card in a card-list response. Field names mirror the
// provider's wire format, including its misspelling of "valid".
type CardEntry struct {
	CardNo      string `json:"resCardNo"`
	CardName    string `json:"resCardName"`
	CardType    string `json:"resCardType"`
	ImageLink   string `json:"resImageLink"`
	ValidPeriod string `json:"resVaildPeriod"`
	TrafficYN   string `json:"resTrafficYn"`
	UserName    string `json:"resUserNm"`
	SleepYN     string `json:"resSleepYn"`
}

// BillingEntry is one account block in a billing-list response; the
// actual charges live in its history list.
type BillingEntry struct {
	AccountDisplay string          `json:"resAccountDisplay"`
	ChargeMonth    string          `json:"resChargeMonth"`
	ChargeAmount   any             `json:"resChargeAmt"`
	ChargeHistory  []ChargeHistory `json:"resChargeHistoryList"`
}

// ChargeHistory is one billed transaction. Amount-like fields are typed
// any because the provider sends them interchangeably as bare numbers and
// comma-separated strings; expense.ParseAmount absorbs both.
type ChargeHistory struct {
	UsedDate            string `json:"resUsedDate"`
	UsedTime            string `json:"resUsedTime"`
	UsedCard            string `json:"resUsedCard"`
	MemberStoreName     string `json:"resMemberStoreName"`
	UsedAmount          any    `json:"resUsedAmount"`
	ApprovalNo          string `json:"resApprovalNo"`
	PaymentType         string `json:"resPaymentType"`
	InstallmentMonth    any    `json:"resInstallmentMonth"`
	RoundNo             string `json:"resRoundNo"`
	PaymentPrincipal    any    `json:"resPaymentPrincipal"`
	Fee                 any    `json:"resFee"`
	PaymentAmount       any    `json:"resPaymentAmt"`
	AfterPaymentBalance any    `json:"resAfterPaymentBalance"`
	EarnPoint           any    `json:"resEarnPoint"`
}

// ApprovalEntry is one account block in an approval-list response.
type ApprovalEntry struct {
	CardNo       string         `json:"resCardNo"`
	ApprovalList []ApprovalItem `json:"resApprovalList"`
}

// ApprovalItem is one authorized transaction.
type ApprovalItem struct {
	UsedDate         string `json:"resUsedDate"`
	UsedTime         string `json:"resUsedTime"`
	ApprovalNo       string `json:"resApprovalNo"`
	CardName         string `json:"resCardName"`
	MemberStoreName  string `json:"resMemberStoreName"`
	UsedAmount       any    `json:"resUsedAmount"`
	PaymentType      string `json:"resPaymentType"`
	InstallmentMonth any    `json:"resInstallmentMonth"`
	CancelYN         string `json:"resCancelYN"`
	MemberStoreType  string `json:"resMemberStoreType"`
}

// TwoFactorContinuation is the suspended outcome of connected-account
// creation: a prompt to show the user and the opaque payload to echo back.
type TwoFactorContinuation struct {
	Message string
	Data    TwoWayInfo
}

// ConnectedIDResult is the success outcome of connected-account creation.
// AlreadyRegistered marks the provider's re-issuance response; the
// identifier it carries is as good as a fresh one.
type ConnectedIDResult struct {
	ConnectedID       string
	AlreadyRegistered bool
	TwoFactor         *TwoFactorContinuation
}
