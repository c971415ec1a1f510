package service

// QRCodeService renders share QR codes for places.
type QRCodeService interface {
	// GeneratePlaceQR generates a PNG QR code encoding the share payload
	// for the given external place id and coordinates.
	GeneratePlaceQR(externalID string, latitude, longitude float64) ([]byte, error)
}
