package entity

// DevicePlatform is the client platform a paired device runs on.
type DevicePlatform string

const (
	PlatformIOS     DevicePlatform = "iOS"
	PlatformAndroid DevicePlatform = "Android"
	PlatformWeb     DevicePlatform = "Web"
)

// Device represents a paired client. Devices are created by the add-device
// action and removed by id; there is no ownership beyond the single-user
// wallet state.
type Device struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Platform   DevicePlatform `json:"platform"`
	LastActive string         `json:"lastActive"`
	Location   string         `json:"location,omitempty"`
}
