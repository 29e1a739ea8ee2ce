package enums

// FundType labels what a cash fund is collecting toward.
type FundType string

const (
	FundMoving  FundType = "moving"
	FundDeposit FundType = "deposit"
	FundLegal   FundType = "legal"
	FundTherapy FundType = "therapy"
	FundPet     FundType = "pet"
	FundTravel  FundType = "travel"
	FundPetty   FundType = "petty"
	FundCustom  FundType = "custom"
)

var fundTypes = map[FundType]struct{}{
	FundMoving:  {},
	FundDeposit: {},
	FundLegal:   {},
	FundTherapy: {},
	FundPet:     {},
	FundTravel:  {},
	FundPetty:   {},
	FundCustom:  {},
}

func (f FundType) IsValid() bool {
	_, ok := fundTypes[f]
	return ok
}

func (f FundType) String() string { return string(f) }

// ContributionStatus tracks the payment lifecycle of a contribution.
type ContributionStatus string

const (
	ContributionPending   ContributionStatus = "pending"
	ContributionCompleted ContributionStatus = "completed"
	ContributionFailed    ContributionStatus = "failed"
	ContributionRefunded  ContributionStatus = "refunded"
)

var contributionStatuses = map[ContributionStatus]struct{}{
	ContributionPending:   {},
	ContributionCompleted: {},
	ContributionFailed:    {},
	ContributionRefunded:  {},
}

func (s ContributionStatus) IsValid() bool {
	_, ok := contributionStatuses[s]
	return ok
}

func (s ContributionStatus) String() string { return string(s) }
