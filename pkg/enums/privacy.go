package enums

// PrivacyLevel controls who can view a profile page.
type PrivacyLevel string

const (
	PrivacyPublic   PrivacyLevel = "public"
	PrivacyLinkOnly PrivacyLevel = "link_only"
	PrivacyPrivate  PrivacyLevel = "private"
)

var privacyLevels = map[PrivacyLevel]struct{}{
	PrivacyPublic:   {},
	PrivacyLinkOnly: {},
	PrivacyPrivate:  {},
}

func (p PrivacyLevel) IsValid() bool {
	_, ok := privacyLevels[p]
	return ok
}

func (p PrivacyLevel) String() string { return string(p) }
