package enums

// ItemCategory buckets registry items for filtering and display.
type ItemCategory string

const (
	CategoryTheBasics      ItemCategory = "the_basics"
	CategoryKitchenReset   ItemCategory = "kitchen_reset"
	CategoryBedroomGlowup  ItemCategory = "bedroom_glowup"
	CategoryLivingSolo     ItemCategory = "living_solo"
	CategorySelfCare       ItemCategory = "self_care"
	CategoryWheels         ItemCategory = "wheels"
	CategoryPettyFund      ItemCategory = "petty_fund"
	CategoryFreshStartFund ItemCategory = "fresh_start_fund"
	CategoryTreatYoself    ItemCategory = "treat_yoself"
	CategoryPets           ItemCategory = "pets"
	CategoryTech           ItemCategory = "tech"
	CategoryOther          ItemCategory = "other"
)

var itemCategories = map[ItemCategory]struct{}{
	CategoryTheBasics:      {},
	CategoryKitchenReset:   {},
	CategoryBedroomGlowup:  {},
	CategoryLivingSolo:     {},
	CategorySelfCare:       {},
	CategoryWheels:         {},
	CategoryPettyFund:      {},
	CategoryFreshStartFund: {},
	CategoryTreatYoself:    {},
	CategoryPets:           {},
	CategoryTech:           {},
	CategoryOther:          {},
}

func (c ItemCategory) IsValid() bool {
	_, ok := itemCategories[c]
	return ok
}

func (c ItemCategory) String() string { return string(c) }

// ItemPriority signals how badly the recipient wants an item.
type ItemPriority string

const (
	PriorityNeed  ItemPriority = "need"
	PriorityWant  ItemPriority = "want"
	PriorityDream ItemPriority = "dream"
)

var itemPriorities = map[ItemPriority]struct{}{
	PriorityNeed:  {},
	PriorityWant:  {},
	PriorityDream: {},
}

func (p ItemPriority) IsValid() bool {
	_, ok := itemPriorities[p]
	return ok
}

func (p ItemPriority) String() string { return string(p) }

// ItemStatus tracks an item's fulfillment lifecycle.
type ItemStatus string

const (
	ItemAvailable       ItemStatus = "available"
	ItemClaimed         ItemStatus = "claimed"
	ItemPartiallyFunded ItemStatus = "partially_funded"
	ItemFulfilled       ItemStatus = "fulfilled"
)

var itemStatuses = map[ItemStatus]struct{}{
	ItemAvailable:       {},
	ItemClaimed:         {},
	ItemPartiallyFunded: {},
	ItemFulfilled:       {},
}

func (s ItemStatus) IsValid() bool {
	_, ok := itemStatuses[s]
	return ok
}

func (s ItemStatus) String() string { return string(s) }
