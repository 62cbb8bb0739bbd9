package pipeline

import (
	"fmt"
	"strconv"

	"github.com/omnimsg/composer/internal/model"
)

// Shape turns validated form values into the wire payload for a
// message type. Values must already have passed form.Validate: strings
// are strings, numbers are float64, recipients are []string.
func Shape(t model.MessageType, values map[string]any) (any, error) {
	switch t {
	case model.TypeText:
		return model.TextPayload{Type: "text", Text: str(values, "text")}, nil

	case model.TypeImage:
		return model.ImagePayload{
			Type:     "image",
			MediaURL: str(values, "mediaUrl"),
			Caption:  str(values, "caption"),
			Button:   button(values),
		}, nil

	case model.TypeVideo:
		return model.VideoPayload{
			Type:         "video",
			MediaURL:     str(values, "mediaUrl"),
			Caption:      str(values, "caption"),
			ThumbnailURL: str(values, "thumbnailUrl"),
			Duration:     durationISO(num(values, "duration")),
			Button:       button(values),
		}, nil

	case model.TypeFile:
		return model.FilePayload{
			Type:     "file",
			MediaURL: str(values, "mediaUrl"),
			Filename: str(values, "filename"),
		}, nil

	case model.TypeSticker:
		return model.StickerPayload{Type: "sticker", MediaURL: str(values, "mediaUrl")}, nil

	case model.TypeLocation:
		return model.LocationPayload{
			Type:      "location",
			Latitude:  num(values, "latitude"),
			Longitude: num(values, "longitude"),
			Name:      str(values, "name"),
			Address:   str(values, "address"),
		}, nil

	case model.TypeList:
		return model.ListPayload{
			Type:        "list",
			Text:        str(values, "text"),
			ActionTitle: str(values, "actionTitle"),
			Options:     stringSlice(values["options"]),
		}, nil

	case model.TypeOtp:
		return model.OtpPayload{
			Type:       "otp",
			TemplateID: str(values, "templateId"),
			Parameters: pairsToMap(values["parameters"]),
			Language:   str(values, "language"),
		}, nil

	case model.TypeContact:
		return model.ContactPayload{
			Type:     "contact",
			Contacts: []model.Contact{shapeContact(values)},
		}, nil

	case model.TypeCard:
		return model.CardPayload{
			Type:         "card",
			Orientation:  str(values, "orientation"),
			Alignment:    str(values, "alignment"),
			Height:       str(values, "height"),
			Title:        str(values, "title"),
			Description:  str(values, "description"),
			MediaURL:     str(values, "mediaUrl"),
			ThumbnailURL: str(values, "thumbnailUrl"),
		}, nil

	case model.TypeCarousel:
		return model.CarouselPayload{
			Type:      "carousel",
			CardWidth: str(values, "cardWidth"),
			Text:      str(values, "text"),
			Items:     shapeCarouselItems(values["items"]),
		}, nil

	case model.TypeTwoFA:
		return model.TwoFAPayload{
			Type:         "2fa",
			Placeholders: pairsToMap(values["placeholders"]),
		}, nil

	default:
		return nil, fmt.Errorf("no payload shape for message type %s", t)
	}
}

// durationISO renders seconds as an ISO-8601 duration, "PT5S". Both
// numeric and numeric-string form inputs end up here as float64.
func durationISO(seconds float64) string {
	return "PT" + strconv.FormatFloat(seconds, 'f', -1, 64) + "S"
}

// pairsToMap reduces [{key,value},...] into a flat object. Duplicate
// keys overwrite earlier ones, last write wins.
func pairsToMap(raw any) map[string]string {
	out := map[string]string{}
	items, _ := raw.([]any)
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out[str(m, "key")] = str(m, "value")
	}
	return out
}

func shapeContact(values map[string]any) model.Contact {
	name, _ := values["name"].(map[string]any)
	c := model.Contact{
		Name: model.ContactName{
			FirstName:     str(name, "firstName"),
			FormattedName: str(name, "formattedName"),
			LastName:      str(name, "lastName"),
			MiddleName:    str(name, "middleName"),
			NamePrefix:    str(name, "namePrefix"),
			NameSuffix:    str(name, "nameSuffix"),
		},
		Birthday: str(values, "birthday"),
	}

	for _, it := range anySlice(values["emails"]) {
		c.Emails = append(c.Emails, model.ContactEmail{
			Email: str(it, "email"),
			Type:  str(it, "type"),
		})
	}
	for _, it := range anySlice(values["phones"]) {
		c.Phones = append(c.Phones, model.ContactPhone{
			Phone: str(it, "phone"),
			Type:  str(it, "type"),
			WaID:  str(it, "waId"),
		})
	}
	for _, it := range anySlice(values["addresses"]) {
		c.Addresses = append(c.Addresses, model.ContactAddress{
			Street:      str(it, "street"),
			City:        str(it, "city"),
			State:       str(it, "state"),
			Zip:         str(it, "zip"),
			Country:     str(it, "country"),
			CountryCode: str(it, "countryCode"),
			Type:        str(it, "type"),
		})
	}
	for _, it := range anySlice(values["urls"]) {
		c.URLs = append(c.URLs, model.ContactURL{
			URL:  str(it, "url"),
			Type: str(it, "type"),
		})
	}

	if org, ok := values["org"].(map[string]any); ok {
		o := model.ContactOrg{
			Company:    str(org, "company"),
			Department: str(org, "department"),
			Title:      str(org, "title"),
		}
		if o != (model.ContactOrg{}) {
			c.Org = &o
		}
	}
	return c
}

func shapeCarouselItems(raw any) []model.CarouselItem {
	var out []model.CarouselItem
	for _, it := range anySlice(raw) {
		item := model.CarouselItem{
			Title:        str(it, "title"),
			Description:  str(it, "description"),
			MediaURL:     str(it, "mediaUrl"),
			ThumbnailURL: str(it, "thumbnailUrl"),
			Height:       str(it, "height"),
			Buttons:      []model.Button{},
		}
		for _, b := range anySlice(it["buttons"]) {
			item.Buttons = append(item.Buttons, model.Button{
				Title:  str(b, "title"),
				Action: str(b, "action"),
			})
		}
		out = append(out, item)
	}
	return out
}

func button(values map[string]any) *model.Button {
	m, ok := values["button"].(map[string]any)
	if !ok {
		return nil
	}
	return &model.Button{Title: str(m, "title"), Action: str(m, "action")}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) float64 {
	n, _ := m[key].(float64)
	return n
}

func stringSlice(raw any) []string {
	items, _ := raw.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func anySlice(raw any) []map[string]any {
	items, _ := raw.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
