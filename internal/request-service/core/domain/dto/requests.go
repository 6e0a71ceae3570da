package dto

// CreateRequestDto is the body of POST /requests. Image is an optional
// base64-encoded attachment; it is uploaded to object storage and only the
// resulting URL is persisted.
type CreateRequestDto struct {
	VehicleType *string `json:"vehicleType"`
	ServiceType *string `json:"serviceType"`
	Description *string `json:"description"`
	Destination *string `json:"destination"`
	Source      *string `json:"source,omitempty"`
	Image       *string `json:"image,omitempty"`
}

type RequestResponseDto struct {
	ID               string `json:"id"`
	Requester        string `json:"requester"`
	VehicleType      string `json:"vehicleType"`
	ServiceType      string `json:"serviceType"`
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Destination      string `json:"destination"`
	Source           string `json:"source,omitempty"`
	Status           string `json:"status"`
	AssignedMechanic string `json:"assignedMechanic,omitempty"`
	CreatedAt        string `json:"createdAt"`

	RequesterName    string `json:"requesterName,omitempty"`
	RequesterPhone   string `json:"requesterPhone,omitempty"`
	RequesterAddress string `json:"requesterAddress,omitempty"`
}

type AcceptResponseDto struct {
	Message          string               `json:"message"`
	Request          RequestResponseDto   `json:"request"`
	MechanicLocation *MechanicLocationDto `json:"mechanicLocation,omitempty"`
}

type MechanicLocationDto struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RequestLocationDto struct {
	Destination string `json:"destination"`
}

type StatusResponseDto struct {
	Message string             `json:"message"`
	Request RequestResponseDto `json:"request"`
}
