package model

import "time"

// Status of a service request. Transitions only move forward along the
// edges encoded in NextOnComplete/CanCancel/CanAccept; nothing ever moves a
// request back to an earlier status.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusUserCompleted     Status = "userCompleted"
	StatusMechanicCompleted Status = "mechanicCompleted"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleMechanic Role = "mechanic"
)

type VehicleType string

const (
	VehicleCar       VehicleType = "car"
	VehicleMotorbike VehicleType = "motorbike"
)

type ServiceType string

const (
	ServiceFlatTire   ServiceType = "flatTire"
	ServiceFuel       ServiceType = "fuel"
	ServiceEngine     ServiceType = "engine"
	ServiceSpark      ServiceType = "spark"
	ServiceOilLeakage ServiceType = "oilLeakage"
)

// ServiceRequest is the central record of the marketplace. AssignedMechanic
// is empty exactly while the request is pending (or was cancelled before
// anyone accepted it) and is never cleared once set.
type ServiceRequest struct {
	ID               string
	RequesterID      string
	VehicleType      VehicleType
	ServiceType      ServiceType
	Description      string
	ImageURL         string
	Destination      string
	Source           string
	Status           Status
	AssignedMechanic string
	CreatedAt        time.Time

	// Requester contact details, populated on mechanic-facing listings.
	RequesterName    string
	RequesterPhone   string
	RequesterAddress string
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusUserCompleted,
		StatusMechanicCompleted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanAccept reports whether a mechanic may claim a request in status s.
func (s Status) CanAccept() bool {
	return s == StatusPending
}

// CanCancel reports whether the requester may still cancel from status s.
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusAccepted
}

// NextOnComplete resolves the completion edge for the given actor role.
// From accepted each side records its own half; once one side has completed,
// the other side's mark closes the request. Any other combination is illegal.
func NextOnComplete(s Status, r Role) (Status, bool) {
	switch {
	case s == StatusAccepted && r == RoleMechanic:
		return StatusMechanicCompleted, true
	case s == StatusAccepted && r == RoleUser:
		return StatusUserCompleted, true
	case s == StatusMechanicCompleted && r == RoleUser:
		return StatusCompleted, true
	case s == StatusUserCompleted && r == RoleMechanic:
		return StatusCompleted, true
	}
	return s, false
}

func (v VehicleType) Valid() bool {
	return v == VehicleCar || v == VehicleMotorbike
}

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceFlatTire, ServiceFuel, ServiceEngine, ServiceSpark, ServiceOilLeakage:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleMechanic
}

// MechanicLocation is a mechanic's last reported position, maintained by the
// auth service and read here only to decorate accept responses.
type MechanicLocation struct {
	Latitude  float64
	Longitude float64
	Known     bool
}
