package model

import "strings"

// MessageType identifies the kind of content being composed.
type MessageType string

const (
	TypeText     MessageType = "Text"
	TypeImage    MessageType = "Image"
	TypeAudio    MessageType = "Audio"
	TypeVideo    MessageType = "Video"
	TypeFile     MessageType = "File"
	TypeSticker  MessageType = "Sticker"
	TypeLocation MessageType = "Location"
	TypeList     MessageType = "List"
	TypeOtp      MessageType = "Otp"
	TypeContact  MessageType = "Contact"
	TypeCard     MessageType = "Card"
	TypeCarousel MessageType = "Carousel"
	TypeTwoFA    MessageType = "TwoFA"
)

// AllTypes lists every message type in navigation order.
var AllTypes = []MessageType{
	TypeText, TypeImage, TypeAudio, TypeVideo, TypeFile, TypeSticker,
	TypeLocation, TypeList, TypeOtp, TypeContact, TypeCard, TypeCarousel, TypeTwoFA,
}

// ParseMessageType matches a type name case-insensitively. The second
// return reports whether the name is known at all.
func ParseMessageType(s string) (MessageType, bool) {
	for _, t := range AllTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	// the UI routes 2FA as "2fa"
	if strings.EqualFold(s, "2fa") {
		return TypeTwoFA, true
	}
	return "", false
}

// Channel is a delivery network.
type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelViber    Channel = "Viber"
	ChannelWhatsapp Channel = "Whatsapp"
	ChannelRCS      Channel = "RCS"
)

func ParseChannel(s string) (Channel, bool) {
	for _, c := range []Channel{ChannelSMS, ChannelViber, ChannelWhatsapp, ChannelRCS} {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Wire returns the lowercase form sent to the gateway.
func (c Channel) Wire() string { return strings.ToLower(string(c)) }
