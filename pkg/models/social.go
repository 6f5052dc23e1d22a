package models

// SocialProvider identifies a recognized social media platform.
type SocialProvider string

const (
	ProviderTwitter   SocialProvider = "twitter"
	ProviderFacebook  SocialProvider = "facebook"
	ProviderInstagram SocialProvider = "instagram"
	ProviderYouTube   SocialProvider = "youtube"
)

var providers = map[string]SocialProvider{
	string(ProviderTwitter):   ProviderTwitter,
	string(ProviderFacebook):  ProviderFacebook,
	string(ProviderInstagram): ProviderInstagram,
	string(ProviderYouTube):   ProviderYouTube,
}

// ProviderFrom looks up an upstream identifier type. Matching is exact.
func ProviderFrom(code string) (SocialProvider, bool) {
	p, ok := providers[code]
	return p, ok
}

// SocialService is one account handle on one provider.
type SocialService struct {
	Provider SocialProvider `json:"provider"`
	Value    string         `json:"value"`
}
