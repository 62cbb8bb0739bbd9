package registry

import "github.com/omnimsg/composer/internal/model"

// OtpLanguages is the closed language list accepted by OTP templates.
var OtpLanguages = []string{
	"ENGLISH", "ARABIC", "BULGARIAN", "CROATIAN", "CZECH", "DANISH",
	"GERMAN", "GREEK", "SPANISH", "FINNISH", "FRENCH", "HEBREW",
	"BURMESE", "HUNGARIAN", "INDONESIAN", "ITALIAN", "JAPANESE",
	"NORWEGIAN", "DUTCH", "POLISH", "PORTUGUESE_PORTUGAL",
	"PORTUGUESE_BRAZIL", "ROMANIAN", "RUSSIAN", "SLOVAK", "SERBIAN",
	"SWEDISH", "THAI", "TURKISH", "UKRAINIAN", "VIETNAMESE", "PERSIAN",
	"BELARUSIAN",
}

func fptr(v float64) *float64 { return &v }

// recipients declares the shared "to" field. def is "" for forms whose
// input is the comma-separated text box and []any{} for the list-typed
// variant; validation accepts either shape and normalizes both.
func recipients(def any) Field {
	return Field{Name: "to", Kind: KindRecipients, Required: true, Default: def}
}

func buttonField(required bool) Field {
	return Field{
		Name:     "button",
		Kind:     KindObject,
		Required: required,
		Fields: []Field{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "action", Kind: KindString, Required: true},
		},
	}
}

var buttonTemplate = map[string]any{"title": "", "action": ""}

var fieldSets = map[model.MessageType]FieldSet{
	model.TypeText: {
		Type: model.TypeText,
		Fields: []Field{
			recipients([]any{}),
			{Name: "text", Kind: KindString, Required: true, Default: ""},
		},
	},

	model.TypeImage: {
		Type: model.TypeImage,
		Fields: []Field{
			recipients([]any{}),
			{Name: "mediaUrl", Kind: KindURL, Required: true, Default: ""},
			{Name: "caption", Kind: KindString, Default: ""},
			buttonField(false),
		},
	},

	model.TypeVideo: {
		Type: model.TypeVideo,
		Fields: []Field{
			recipients([]any{}),
			{Name: "mediaUrl", Kind: KindURL, Required: true, Default: ""},
			{Name: "caption", Kind: KindString, Default: ""},
			{Name: "thumbnailUrl", Kind: KindURL, Required: true, Default: ""},
			{Name: "duration", Kind: KindDuration, Required: true, Default: float64(0)},
			buttonField(false),
		},
	},

	model.TypeFile: {
		Type: model.TypeFile,
		Fields: []Field{
			recipients([]any{}),
			{Name: "mediaUrl", Kind: KindURL, Required: true, Default: ""},
			{Name: "filename", Kind: KindString, Required: true, Pattern: `.+\.[a-zA-Z0-9]+$`, Msg: "filename must include an extension", Default: ""},
		},
	},

	model.TypeSticker: {
		Type: model.TypeSticker,
		Fields: []Field{
			recipients([]any{}),
			{Name: "mediaUrl", Kind: KindURL, Required: true, Suffix: ".webp", Msg: "sticker must be a .webp file", Default: ""},
		},
	},

	model.TypeLocation: {
		Type: model.TypeLocation,
		Fields: []Field{
			recipients(""),
			{Name: "latitude", Kind: KindNumber, Required: true, Min: fptr(-90), Max: fptr(90), Default: float64(0)},
			{Name: "longitude", Kind: KindNumber, Required: true, Min: fptr(-180), Max: fptr(180), Default: float64(0)},
			{Name: "name", Kind: KindString, Default: ""},
			{Name: "address", Kind: KindString, Default: ""},
		},
	},

	model.TypeList: {
		Type: model.TypeList,
		Fields: []Field{
			recipients([]any{}),
			{Name: "text", Kind: KindString, Required: true, Default: ""},
			{Name: "actionTitle", Kind: KindString, Required: true, Default: ""},
			{
				Name: "options", Kind: KindArray, Required: true, MinItems: 1,
				Elem:     &Field{Kind: KindString, Required: true},
				Default:  []any{""},
				Template: "",
			},
		},
	},

	model.TypeOtp: {
		Type: model.TypeOtp,
		Fields: []Field{
			recipients([]any{}),
			{Name: "templateId", Kind: KindString, Required: true, Default: ""},
			{
				Name: "parameters", Kind: KindArray, Required: true, MinItems: 1,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "key", Kind: KindString, Required: true},
					{Name: "value", Kind: KindString, Required: true},
				}},
				Default:  []any{map[string]any{"key": "", "value": ""}},
				Template: map[string]any{"key": "", "value": ""},
			},
			{Name: "language", Kind: KindEnum, Required: true, Enum: OtpLanguages, Default: "ENGLISH"},
		},
	},

	model.TypeContact: {
		Type: model.TypeContact,
		Fields: []Field{
			recipients(""),
			{
				Name: "name", Kind: KindObject, Required: true,
				Fields: []Field{
					{Name: "firstName", Kind: KindString, Required: true},
					{Name: "formattedName", Kind: KindString, Required: true},
					{Name: "lastName", Kind: KindString},
					{Name: "middleName", Kind: KindString},
					{Name: "namePrefix", Kind: KindString},
					{Name: "nameSuffix", Kind: KindString},
				},
				Default: map[string]any{"firstName": "", "formattedName": ""},
			},
			{Name: "birthday", Kind: KindString, Default: ""},
			{
				Name: "emails", Kind: KindArray,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "email", Kind: KindEmail, Required: true},
					{Name: "type", Kind: KindEnum, Enum: []string{"HOME", "WORK"}},
				}},
				Default:  []any{},
				Template: map[string]any{"email": "", "type": ""},
			},
			{
				Name: "phones", Kind: KindArray,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "phone", Kind: KindString, Required: true},
					{Name: "type", Kind: KindEnum, Enum: []string{"CELL", "MAIN", "IPHONE", "HOME", "WORK"}},
					{Name: "waId", Kind: KindString},
				}},
				Default:  []any{},
				Template: map[string]any{"phone": "", "type": "", "waId": ""},
			},
			{
				Name: "addresses", Kind: KindArray,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "street", Kind: KindString},
					{Name: "city", Kind: KindString},
					{Name: "state", Kind: KindString},
					{Name: "zip", Kind: KindString},
					{Name: "country", Kind: KindString},
					{Name: "countryCode", Kind: KindString},
					{Name: "type", Kind: KindEnum, Enum: []string{"HOME", "WORK"}},
				}},
				Default:  []any{},
				Template: map[string]any{"street": "", "city": "", "state": "", "zip": "", "country": "", "countryCode": "", "type": ""},
			},
			{
				Name: "urls", Kind: KindArray,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "url", Kind: KindURL, Required: true},
					{Name: "type", Kind: KindEnum, Enum: []string{"HOME", "WORK"}},
				}},
				Default:  []any{},
				Template: map[string]any{"url": "", "type": ""},
			},
			{
				Name: "org", Kind: KindObject,
				Fields: []Field{
					{Name: "company", Kind: KindString},
					{Name: "department", Kind: KindString},
					{Name: "title", Kind: KindString},
				},
				Default: map[string]any{},
			},
		},
	},

	model.TypeCard: {
		Type: model.TypeCard,
		Fields: []Field{
			recipients(""),
			{Name: "orientation", Kind: KindEnum, Required: true, Enum: []string{"HORIZONTAL", "VERTICAL"}, Default: "HORIZONTAL"},
			{Name: "alignment", Kind: KindEnum, Required: true, Enum: []string{"LEFT", "RIGHT"}, Default: "LEFT"},
			{Name: "height", Kind: KindEnum, Required: true, Enum: []string{"SHORT", "MEDIUM", "TALL"}, Default: "MEDIUM"},
			{Name: "title", Kind: KindString, Default: ""},
			{Name: "description", Kind: KindString, Default: ""},
			{Name: "mediaUrl", Kind: KindURL, Required: true, Default: ""},
			{Name: "thumbnailUrl", Kind: KindURL, Default: ""},
		},
	},

	model.TypeCarousel: {
		Type: model.TypeCarousel,
		Fields: []Field{
			recipients([]any{}),
			{Name: "cardWidth", Kind: KindEnum, Required: true, Enum: []string{"SMALL", "MEDIUM"}, Default: "SMALL"},
			{Name: "text", Kind: KindString, Required: true, Default: ""},
			{
				Name: "items", Kind: KindArray, Required: true, MinItems: 1,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "title", Kind: KindString, Required: true, MinLen: 2},
					{Name: "description", Kind: KindString, Required: true},
					{Name: "mediaUrl", Kind: KindURL, Required: true},
					{Name: "thumbnailUrl", Kind: KindURL},
					{Name: "height", Kind: KindEnum, Required: true, Enum: []string{"SHORT", "MEDIUM", "TALL"}},
					{
						Name: "buttons", Kind: KindArray, MaxItems: 2,
						Elem: &Field{Kind: KindObject, Fields: []Field{
							{Name: "title", Kind: KindString, Required: true},
							{Name: "action", Kind: KindString, Required: true},
						}},
						Template: buttonTemplate,
					},
				}},
				Default: []any{map[string]any{
					"title": "", "description": "", "mediaUrl": "", "thumbnailUrl": "",
					"height": "SHORT",
					"buttons": []any{map[string]any{"title": "", "action": ""}},
				}},
				Template: map[string]any{
					"title": "", "description": "", "mediaUrl": "", "thumbnailUrl": "",
					"height": "SHORT",
					"buttons": []any{map[string]any{"title": "", "action": ""}},
				},
			},
		},
	},

	model.TypeTwoFA: {
		Type: model.TypeTwoFA,
		Fields: []Field{
			recipients([]any{}),
			{
				Name: "placeholders", Kind: KindArray,
				Elem: &Field{Kind: KindObject, Fields: []Field{
					{Name: "key", Kind: KindString, Required: true},
					{Name: "value", Kind: KindString, Required: true},
				}},
				Default:  []any{},
				Template: map[string]any{"key": "", "value": ""},
			},
		},
	},
}
