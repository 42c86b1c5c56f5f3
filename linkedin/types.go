package linkedin

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Field projections requested by the client.
var (
	ProfileFields = []string{
		"id", "first-name", "last-name", "headline", "industry", "picture-url",
		"public-profile-url", "summary", "email-address", "num-connections",
		"site-standard-profile-request",
	}
	CompanyFields = []string{
		"id", "name", "universal-name", "description", "website-url", "logo-url",
		"square-logo-url", "twitter-id", "founded-year", "end-year",
		"num-followers", "ticker", "company-type", "status",
		"employee-count-range", "stock-exchange", "industries", "specialties",
		"email-domains", "locations",
	}
	ProductFields = []string{
		"id", "name", "type", "creation-timestamp", "description", "logo-url",
		"website-url", "video", "disclaimer", "num-recommendations", "features",
		"recommendations:(id,product-id,recommender,text,timestamp)",
	}
)

// Timestamp is a LinkedIn timestamp in epoch milliseconds. null decodes to
// the zero time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON decodes epoch milliseconds as a UTC time.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return errors.Wrap(err, "linkedin: timestamp")
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON writes epoch milliseconds, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UnixMilli())
}

// Collection is LinkedIn's list envelope.
type Collection[T any] struct {
	Total  int `json:"_total"`
	Values []T `json:"values,omitempty"`
}

type (
	// CodeAndName is LinkedIn's coded enumeration value.
	CodeAndName struct {
		Code string `json:"code"`
		Name string `json:"name,omitempty"`
	}

	// URLResource wraps a bare URL.
	URLResource struct {
		URL string `json:"url"`
	}

	// Profile is a LinkedIn member profile.
	Profile struct {
		ID                         string       `json:"id"`
		FirstName                  string       `json:"firstName,omitempty"`
		LastName                   string       `json:"lastName,omitempty"`
		Headline                   string       `json:"headline,omitempty"`
		Industry                   string       `json:"industry,omitempty"`
		PictureURL                 string       `json:"pictureUrl,omitempty"`
		PublicProfileURL           string       `json:"publicProfileUrl,omitempty"`
		Summary                    string       `json:"summary,omitempty"`
		EmailAddress               string       `json:"emailAddress,omitempty"`
		NumConnections             int          `json:"numConnections,omitempty"`
		SiteStandardProfileRequest *URLResource `json:"siteStandardProfileRequest,omitempty"`
	}

	// Address is a postal address.
	Address struct {
		Street1     string `json:"street1,omitempty"`
		Street2     string `json:"street2,omitempty"`
		City        string `json:"city,omitempty"`
		State       string `json:"state,omitempty"`
		PostalCode  string `json:"postalCode,omitempty"`
		CountryCode string `json:"countryCode,omitempty"`
	}

	// ContactInfo holds a location's phone numbers.
	ContactInfo struct {
		Phone1 string `json:"phone1,omitempty"`
		Phone2 string `json:"phone2,omitempty"`
		Fax    string `json:"fax,omitempty"`
	}

	// CompanyLocation is one office of a company.
	CompanyLocation struct {
		Address        *Address     `json:"address,omitempty"`
		ContactInfo    *ContactInfo `json:"contactInfo,omitempty"`
		IsHeadquarters bool         `json:"isHeadquarters,omitempty"`
		IsActive       bool         `json:"isActive,omitempty"`
	}

	// Company is a LinkedIn company page.
	Company struct {
		ID                 int                         `json:"id"`
		Name               string                      `json:"name,omitempty"`
		UniversalName      string                      `json:"universalName,omitempty"`
		Description        string                      `json:"description,omitempty"`
		WebsiteURL         string                      `json:"websiteUrl,omitempty"`
		LogoURL            string                      `json:"logoUrl,omitempty"`
		SquareLogoURL      string                      `json:"squareLogoUrl,omitempty"`
		TwitterID          string                      `json:"twitterId,omitempty"`
		FoundedYear        int                         `json:"foundedYear,omitempty"`
		EndYear            int                         `json:"endYear,omitempty"`
		NumFollowers       int                         `json:"numFollowers,omitempty"`
		Ticker             string                      `json:"ticker,omitempty"`
		CompanyType        *CodeAndName                `json:"companyType,omitempty"`
		Status             *CodeAndName                `json:"status,omitempty"`
		EmployeeCountRange *CodeAndName                `json:"employeeCountRange,omitempty"`
		StockExchange      *CodeAndName                `json:"stockExchange,omitempty"`
		Industries         Collection[CodeAndName]     `json:"industries"`
		Specialties        Collection[string]          `json:"specialties"`
		EmailDomains       Collection[string]          `json:"emailDomains"`
		Locations          Collection[CompanyLocation] `json:"locations"`
	}

	// ProductRecommendation is a member's recommendation of a company product.
	ProductRecommendation struct {
		ID          int       `json:"id"`
		ProductID   int       `json:"productId"`
		Recommender *Profile  `json:"recommender,omitempty"`
		Text        string    `json:"text,omitempty"`
		Timestamp   Timestamp `json:"timestamp"`
	}

	// Product is a product listed on a company page.
	Product struct {
		ID                 int                               `json:"id"`
		Name               string                            `json:"name,omitempty"`
		Type               *CodeAndName                      `json:"type,omitempty"`
		CreationTimestamp  Timestamp                         `json:"creationTimestamp"`
		Description        string                            `json:"description,omitempty"`
		LogoURL            string                            `json:"logoUrl,omitempty"`
		WebsiteURL         string                            `json:"websiteUrl,omitempty"`
		Video              *Video                            `json:"video,omitempty"`
		Disclaimer         string                            `json:"disclaimer,omitempty"`
		NumRecommendations int                               `json:"numRecommendations,omitempty"`
		Features           Collection[string]                `json:"features"`
		Recommendations    Collection[ProductRecommendation] `json:"recommendations"`
	}

	// Video is a product video link.
	Video struct {
		Title string `json:"title,omitempty"`
		URL   string `json:"url,omitempty"`
	}

	// Products is one page of a company's products.
	Products struct {
		Total  int       `json:"_total"`
		Count  int       `json:"_count,omitempty"`
		Start  int       `json:"_start,omitempty"`
		Values []Product `json:"values,omitempty"`
	}
)
