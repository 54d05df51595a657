package owner

const (
	EventChannelLength uint16 = 1024
)
