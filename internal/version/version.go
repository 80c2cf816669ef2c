// ABOUTME: Version information for the player
// ABOUTME: Product name, manufacturer and version reported in logs and telemetry
package version

const (
	// Product is the product name
	Product = "i2sout-player"

	// Manufacturer is the manufacturer name
	Manufacturer = "Resonate"

	// Version is the software version
	Version = "0.1.0"
)
