package enums

import "fmt"

// Channel identifies the sales channel an order came through.
type Channel string

const (
	ChannelOnline    Channel = "Online"
	ChannelWholesale Channel = "Wholesale"
)

var validChannels = []Channel{
	ChannelOnline,
	ChannelWholesale,
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// IsValid reports whether the channel is recognized.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannel converts a raw string into a Channel.
func ParseChannel(value string) (Channel, error) {
	for _, candidate := range validChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}
