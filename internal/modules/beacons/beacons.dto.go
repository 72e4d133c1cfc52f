package beacons

import "time"

// CreateBeaconRequest registers a new BLE beacon
// @Description New beacon registration
type CreateBeaconRequest struct {
	BeaconID     string   `json:"beacon_id" validate:"required,max=100"`
	LocationName string   `json:"location_name" validate:"required,max=255"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AppToken     *string  `json:"app_token,omitempty" validate:"omitempty,max=512"`
} // @name CreateBeaconRequest

// UpdateBeaconRequest changes mutable beacon fields
// @Description Beacon update
type UpdateBeaconRequest struct {
	LocationName *string  `json:"location_name,omitempty" validate:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AppToken     *string  `json:"app_token,omitempty" validate:"omitempty,max=512"`
} // @name UpdateBeaconRequest

// BeaconResponse is a registered beacon
// @Description Registered beacon
type BeaconResponse struct {
	ID           string    `json:"id"`
	BeaconID     string    `json:"beacon_id"`
	LocationName string    `json:"location_name"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	AppToken     *string   `json:"app_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
} // @name BeaconResponse
