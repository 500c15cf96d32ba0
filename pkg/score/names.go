package score

// Metric names as they appear in the weight table and the output record.
const (
	License           = "license"
	RampUp            = "ramp_up_time"
	BusFactor         = "bus_factor"
	CodeQuality       = "code_quality"
	DatasetQuality    = "dataset_quality"
	DatasetAndCode    = "dataset_and_code_score"
	PerformanceClaims = "performance_claims"
	Size              = "size_score"
	Availability      = "availability"
)

// Device classes scored by the size metric.
const (
	DeviceRaspberryPi = "raspberry_pi"
	DeviceJetsonNano  = "jetson_nano"
	DeviceDesktopPC   = "desktop_pc"
	DeviceAWSServer   = "aws_server"
)

// Devices returns the device classes in output order.
func Devices() []string {
	return []string{DeviceRaspberryPi, DeviceJetsonNano, DeviceDesktopPC, DeviceAWSServer}
}
