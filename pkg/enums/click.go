package enums

// ClickSource identifies where an outbound product click originated.
type ClickSource string

const (
	ClickRegistry          ClickSource = "registry"
	ClickCatalog           ClickSource = "catalog"
	ClickMarketplaceSearch ClickSource = "marketplace_search"
)

var clickSources = map[ClickSource]struct{}{
	ClickRegistry:          {},
	ClickCatalog:           {},
	ClickMarketplaceSearch: {},
}

func (c ClickSource) IsValid() bool {
	_, ok := clickSources[c]
	return ok
}

func (c ClickSource) String() string { return string(c) }
