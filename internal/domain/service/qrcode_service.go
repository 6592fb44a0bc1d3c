package service

// QRCodeService defines the interface for QR code generation.
type QRCodeService interface {
	// GeneratePNG renders the payload (an otpauth provisioning URI) as a PNG
	// QR code image.
	GeneratePNG(payload string) ([]byte, error)
}
