package registry

import "github.com/omnimsg/composer/internal/model"

// channelMap is the fixed availability table. Order matters: the first
// entry is auto-selected when a form mounts without a channel choice.
var channelMap = map[model.MessageType][]model.Channel{
	model.TypeText:     {model.ChannelSMS, model.ChannelViber, model.ChannelWhatsapp, model.ChannelRCS},
	model.TypeImage:    {model.ChannelViber, model.ChannelWhatsapp, model.ChannelRCS},
	model.TypeAudio:    {model.ChannelWhatsapp},
	model.TypeVideo:    {model.ChannelViber, model.ChannelWhatsapp, model.ChannelRCS},
	model.TypeFile:     {model.ChannelViber, model.ChannelWhatsapp, model.ChannelRCS},
	model.TypeList:     {model.ChannelViber, model.ChannelWhatsapp},
	model.TypeLocation: {model.ChannelWhatsapp},
	model.TypeSticker:  {model.ChannelWhatsapp},
	model.TypeOtp:      {model.ChannelViber},
	model.TypeContact:  {model.ChannelWhatsapp},
	model.TypeCard:     {model.ChannelRCS},
	model.TypeCarousel: {model.ChannelViber, model.ChannelRCS},
	model.TypeTwoFA:    {model.ChannelViber},
}

// AvailableChannels returns the ordered channel list for a type.
func AvailableChannels(t model.MessageType) []model.Channel {
	chs := channelMap[t]
	out := make([]model.Channel, len(chs))
	copy(out, chs)
	return out
}

// ChannelAvailable reports whether a channel may carry a type.
func ChannelAvailable(t model.MessageType, c model.Channel) bool {
	for _, ch := range channelMap[t] {
		if ch == c {
			return true
		}
	}
	return false
}

// DefaultChannel is the auto-selected first available channel.
func DefaultChannel(t model.MessageType) (model.Channel, bool) {
	chs := channelMap[t]
	if len(chs) == 0 {
		return "", false
	}
	return chs[0], true
}
