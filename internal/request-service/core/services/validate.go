package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"fixmate/internal/request-service/core/domain/dto"
	"fixmate/internal/request-service/core/domain/model"
)

const MaxDescriptionLen = 2000

var (
	ErrEmptyField         = errors.New("field is empty")
	ErrUnknownVehicle     = errors.New("vehicle type must be one of: car, motorbike")
	ErrUnknownService     = errors.New("service type must be one of: flatTire, fuel, engine, spark, oilLeakage")
	ErrDescriptionTooLong = fmt.Errorf("description longer than %d characters", MaxDescriptionLen)
)

func validateCreateRequest(req dto.CreateRequestDto) error {
	if req.VehicleType == nil || *req.VehicleType == "" {
		return fmt.Errorf("vehicleType: %w", ErrEmptyField)
	}
	if !model.VehicleType(*req.VehicleType).Valid() {
		return ErrUnknownVehicle
	}

	if req.ServiceType == nil || *req.ServiceType == "" {
		return fmt.Errorf("serviceType: %w", ErrEmptyField)
	}
	if !model.ServiceType(*req.ServiceType).Valid() {
		return ErrUnknownService
	}

	if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		return fmt.Errorf("description: %w", ErrEmptyField)
	}
	if len(*req.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}

	if req.Destination == nil || strings.TrimSpace(*req.Destination) == "" {
		return fmt.Errorf("destination: %w", ErrEmptyField)
	}

	return nil
}

// decodeImage accepts either a raw base64 payload or a data URI
// ("data:image/png;base64,...") and returns the bytes plus a content type.
func decodeImage(encoded string) ([]byte, string, error) {
	contentType := "image/jpeg"

	if strings.HasPrefix(encoded, "data:") {
		semi := strings.Index(encoded, ";base64,")
		if semi < 0 {
			return nil, "", errors.New("malformed data URI")
		}
		contentType = encoded[len("data:"):semi]
		encoded = encoded[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %v", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image payload")
	}

	return data, contentType, nil
}
