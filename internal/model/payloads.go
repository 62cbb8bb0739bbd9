package model

// Wire payload shapes for the gateway's /send endpoint. One struct per
// message type; the "type" discriminator is filled by the pipeline.
// Optional fields marked omitempty are omitted from the body entirely,
// never sent as empty strings.

type Button struct {
	Title  string `json:"title"`
	Action string `json:"action"`
}

type TextPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImagePayload struct {
	Type     string  `json:"type"`
	MediaURL string  `json:"mediaUrl"`
	Caption  string  `json:"caption,omitempty"`
	Button   *Button `json:"button,omitempty"`
}

type VideoPayload struct {
	Type         string  `json:"type"`
	MediaURL     string  `json:"mediaUrl"`
	Caption      string  `json:"caption"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Duration     string  `json:"duration"`
	Button       *Button `json:"button,omitempty"`
}

type FilePayload struct {
	Type     string `json:"type"`
	MediaURL string `json:"mediaUrl"`
	Filename string `json:"filename"`
}

type StickerPayload struct {
	Type     string `json:"type"`
	MediaURL string `json:"mediaUrl"`
}

type LocationPayload struct {
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type ListPayload struct {
	Type        string   `json:"type"`
	Text        string   `json:"text"`
	ActionTitle string   `json:"actionTitle"`
	Options     []string `json:"options"`
}

type OtpPayload struct {
	Type       string            `json:"type"`
	TemplateID string            `json:"templateId"`
	Parameters map[string]string `json:"parameters"`
	Language   string            `json:"language"`
}

type ContactName struct {
	FirstName     string `json:"firstName"`
	FormattedName string `json:"formattedName"`
	LastName      string `json:"lastName,omitempty"`
	MiddleName    string `json:"middleName,omitempty"`
	NamePrefix    string `json:"namePrefix,omitempty"`
	NameSuffix    string `json:"nameSuffix,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"waId,omitempty"`
}

type ContactAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Type        string `json:"type,omitempty"`
}

type ContactURL struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

type Contact struct {
	Name      ContactName      `json:"name"`
	Birthday  string           `json:"birthday,omitempty"`
	Emails    []ContactEmail   `json:"emails,omitempty"`
	Phones    []ContactPhone   `json:"phones,omitempty"`
	Addresses []ContactAddress `json:"addresses,omitempty"`
	URLs      []ContactURL     `json:"urls,omitempty"`
	Org       *ContactOrg      `json:"org,omitempty"`
}

type ContactPayload struct {
	Type     string    `json:"type"`
	Contacts []Contact `json:"contacts"`
}

type CardPayload struct {
	Type         string `json:"type"`
	Orientation  string `json:"orientation"`
	Alignment    string `json:"alignment"`
	Height       string `json:"height"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type CarouselItem struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	MediaURL     string   `json:"mediaUrl"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Height       string   `json:"height"`
	Buttons      []Button `json:"buttons"`
}

type CarouselPayload struct {
	Type      string         `json:"type"`
	CardWidth string         `json:"cardWidth"`
	Text      string         `json:"text"`
	Items     []CarouselItem `json:"items"`
}

type TwoFAPayload struct {
	Type         string            `json:"type"`
	Placeholders map[string]string `json:"placeholders"`
}
